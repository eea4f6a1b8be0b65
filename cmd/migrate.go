// cmd/migrate.go
package cmd

import (
	"fmt"

	"github.com/dnl-fm/litebase/db"
	"github.com/dnl-fm/litebase/migration"
	"github.com/dnl-fm/litebase/tracking"
	"github.com/spf13/cobra"
)

// openRunner builds a runner from the root command's path flags. The caller
// must close both the returned runner and the target connection.
func openRunner(cmd *cobra.Command) (*migration.Runner, *db.DB, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	trackingPath, _ := cmd.Flags().GetString("tracking-db")
	migrationsDir, _ := cmd.Flags().GetString("migrations-dir")

	set, err := migration.Load(migrationsDir, migration.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := tracking.NewSQLite(trackingPath)
	return migration.NewRunner(set, store, database), database, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending migrations",
	Long: `Apply all pending migrations to the target database.

Migrations are applied in ascending version order and each applied version
is recorded in the tracking database before the next one starts. If a
migration fails, everything applied before it stays applied and nothing
after it is attempted.

Examples:
  litebase migrate
  litebase migrate --db data.db --migrations-dir ./migrations`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, database, err := openRunner(cmd)
		if err != nil {
			return err
		}
		defer database.Close()
		defer runner.Close()

		applied, err := runner.Migrate()
		if err != nil {
			if applied > 0 {
				fmt.Printf("Applied %d migration(s) before the failure\n", applied)
			}
			return err
		}

		if applied == 0 {
			fmt.Println("No pending migrations")
		} else {
			fmt.Printf("Applied %d migration(s)\n", applied)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
