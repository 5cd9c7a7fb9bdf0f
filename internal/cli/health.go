package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health and live session count",
		Long:  "Check server health. Exits non-zero unless the server reports ok, so scripts can wait on it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult

			if err := client.Get("/api/v1/health", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			if result.Status != "ok" {
				return fmt.Errorf("server at %s is %s", cfg.ServerURL, result.Status)
			}
			return nil
		},
	}
}
