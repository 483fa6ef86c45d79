package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillorm/quill/cli/internal/config"
	"github.com/quillorm/quill/cli/internal/ui"
	"github.com/quillorm/quill/client"
	"github.com/quillorm/quill/internal/debug"
	"github.com/quillorm/quill/model"
)

var pingTimeout time.Duration

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Verify database connectivity",
	Long:  "Open the configured database and check that it answers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.PrintHeader("Quill", "Ping Database")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("no database configured; set DATABASE_URL or database_url in .quill.yaml")
		}
		if cfg.Debug {
			debug.Init(true)
		}
		ui.PrintInfo("provider: %s", cfg.Provider)

		c, err := client.New(cfg.Provider, cfg.DatabaseURL, model.NewRegistry())
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
		defer cancel()
		defer c.Disconnect(ctx)

		start := time.Now()
		if err := c.Connect(ctx); err != nil {
			ui.PrintError("database unreachable: %v", err)
			return err
		}
		ui.PrintSuccess("%s answered in %v", cfg.Provider, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	pingCmd.Flags().DurationVar(&pingTimeout, "timeout", 5*time.Second, "connection timeout")
	rootCmd.AddCommand(pingCmd)
}
