// cmd/generate.go
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/dnl-fm/litebase/migration"
	"github.com/spf13/cobra"
)

var generateTemplate = `package migrations

import (
	"github.com/dnl-fm/litebase/db"
	"github.com/dnl-fm/litebase/migration"
)

func init() {
	migration.Register("%s", migration.Unit{
		Up: func(conn db.Conn) error {
			// forward migration
			return nil
		},
		Down: func(conn db.Conn) error {
			// rollback; remove this member for a forward-only migration
			return nil
		},
	})
}
`

var generateCmd = &cobra.Command{
	Use:   "generate <name>",
	Short: "Create a new migration file",
	Long: `Create a new migration source file with a timestamp version prefix.

The name should be a short description using snake_case.

Examples:
  litebase generate create_posts
  litebase generate add_user_id_to_posts`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		migrationsDir, _ := cmd.Flags().GetString("migrations-dir")

		// Validate name (alphanumeric and underscores only)
		if !regexp.MustCompile(`^[a-z][a-z0-9_]*$`).MatchString(name) {
			return fmt.Errorf("migration name must be lowercase alphanumeric with underscores, starting with a letter")
		}

		// Create migrations directory if needed
		if err := os.MkdirAll(migrationsDir, 0755); err != nil {
			return fmt.Errorf("failed to create migrations directory: %w", err)
		}

		version := migration.GenerateVersion()
		filename := filepath.Join(migrationsDir, migration.Filename(version, name))
		content := fmt.Sprintf(generateTemplate, version)

		if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to create migration file: %w", err)
		}

		fmt.Printf("Created migration: %s\n", filename)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
