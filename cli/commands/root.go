package commands

import (
	"github.com/spf13/cobra"

	"github.com/quillorm/quill/cli/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Database tooling for quill models",
	Long: `quill is the command line companion to the quill database layer.

It connects with the same provider/DSN configuration the library uses
(.quill.yaml, QUILL_ environment variables, .env files) and offers
basic connectivity and introspection checks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("%v", err)
		return err
	}
	return nil
}
