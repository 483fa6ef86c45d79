package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillorm/quill/cli/internal/config"
	"github.com/quillorm/quill/cli/internal/ui"
	"github.com/quillorm/quill/client"
	"github.com/quillorm/quill/introspect"
	"github.com/quillorm/quill/model"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables of the configured database",
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.PrintHeader("Quill", "Database Tables")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("no database configured; set DATABASE_URL or database_url in .quill.yaml")
		}

		c, err := client.New(cfg.Provider, cfg.DatabaseURL, model.NewRegistry())
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		defer c.Disconnect(ctx)

		tables, err := introspect.ListTables(ctx, c.DB(), cfg.Provider)
		if err != nil {
			return err
		}
		if len(tables) == 0 {
			ui.PrintWarning("no tables found")
			return nil
		}

		rows := make([][]string, len(tables))
		for i, name := range tables {
			rows[i] = []string{name}
		}
		ui.PrintTable([]string{"Table"}, rows)
		ui.PrintInfo("%d tables", len(tables))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
