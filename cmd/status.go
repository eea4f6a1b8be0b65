// cmd/status.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	Long: `Show every migration in the migrations directory and whether it has
been applied according to the tracking database.

Examples:
  litebase status
  litebase status --tracking-db .litebase/migrations.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, database, err := openRunner(cmd)
		if err != nil {
			return err
		}
		defer database.Close()
		defer runner.Close()

		status, err := runner.Status()
		if err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}

		if len(status.Applied) == 0 && len(status.Pending) == 0 {
			fmt.Println("No migrations found")
			return nil
		}

		for _, version := range status.Applied {
			fmt.Printf("  applied  %s\n", version)
		}
		for _, version := range status.Pending {
			fmt.Printf("  pending  %s\n", version)
		}
		fmt.Printf("\n%d applied, %d pending\n", len(status.Applied), len(status.Pending))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
