// cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/dnl-fm/litebase/internal/log"
	"github.com/spf13/cobra"
)

// Version information set via ldflags at build time
var (
	Version   = "dev"
	BuildTime = ""
	GitCommit = ""
)

var rootCmd = &cobra.Command{
	Use:     "litebase",
	Short:   "litebase - SQLite schema migrations with a separate tracking store",
	Long:    `A migration tool for SQLite that records applied versions in a tracking database kept apart from the data being migrated.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		format, _ := cmd.Flags().GetString("log-format")
		log.Init(&log.Config{Level: level, Format: format})
	},
}

func init() {
	rootCmd.SetVersionTemplate("litebase version {{.Version}}\n")

	rootCmd.PersistentFlags().String("db", "data.db", "Target database path")
	rootCmd.PersistentFlags().String("tracking-db", ".litebase/migrations.db", "Tracking database path")
	rootCmd.PersistentFlags().String("migrations-dir", "./migrations", "Directory for migration files")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
