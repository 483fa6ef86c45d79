package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillorm/quill/cli/internal/version"
)

var versionFull bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		if versionFull {
			fmt.Println(info.FullString())
			return
		}
		fmt.Println(info.String())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "print build details")
	rootCmd.AddCommand(versionCmd)
}
