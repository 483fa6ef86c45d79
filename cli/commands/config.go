package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillorm/quill/cli/internal/config"
	"github.com/quillorm/quill/cli/internal/ui"
)

var (
	configProvider string
	configURL      string
	configDebug    bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update the Quill configuration",
	Long:  "Without flags, config prints the resolved configuration. With --provider, --url or --debug it updates ~/.config/quill/.quill.yaml.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.PrintHeader("Quill", "Configuration")

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		changed := false
		if cmd.Flags().Changed("provider") {
			cfg.Provider = configProvider
			changed = true
		}
		if cmd.Flags().Changed("url") {
			cfg.DatabaseURL = configURL
			changed = true
		}
		if cmd.Flags().Changed("debug") {
			cfg.Debug = configDebug
			changed = true
		}

		if changed {
			if err := config.Save(cfg); err != nil {
				return err
			}
			ui.PrintSuccess("configuration saved")
		}

		url := cfg.DatabaseURL
		if url == "" {
			url = "(not set)"
		}
		ui.PrintList([]string{
			fmt.Sprintf("provider: %s", cfg.Provider),
			fmt.Sprintf("database: %s", url),
			fmt.Sprintf("debug:    %t", cfg.Debug),
		})
		return nil
	},
}

func init() {
	configCmd.Flags().StringVar(&configProvider, "provider", "", "database provider (sqlite, postgresql, mysql)")
	configCmd.Flags().StringVar(&configURL, "url", "", "database connection string")
	configCmd.Flags().BoolVar(&configDebug, "debug", false, "enable query debug logging")
	rootCmd.AddCommand(configCmd)
}
