// cmd/down.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var downCmd = &cobra.Command{
	Use:   "down [version]",
	Short: "Roll back the last applied migration, or a specific version",
	Long: `Roll back a migration by running its down operation and removing its
record from the tracking database.

Without an argument, the most recently applied migration is rolled back.
With a version argument, that specific version is rolled back even when
later versions are still applied; later migrations that depend on it are
not checked, so use this form with care.

Examples:
  litebase down
  litebase down 20240101T000000`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, database, err := openRunner(cmd)
		if err != nil {
			return err
		}
		defer database.Close()
		defer runner.Close()

		if len(args) == 1 {
			version := args[0]
			if err := runner.Rollback(version); err != nil {
				return err
			}
			fmt.Printf("Rolled back %s\n", version)
			return nil
		}

		count, err := runner.RollbackLast()
		if err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("nothing to roll back")
		}
		fmt.Println("Rolled back 1 migration")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downCmd)
}
