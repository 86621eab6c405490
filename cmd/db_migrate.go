package cmd

import (
	"fmt"

	"lending/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

// migrates markets, positions, transactions and prices tables
var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Aliases: []string{"setdb"},
	Short:   "migrate database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.App.Memory {
			return fmt.Errorf("app.memory is set, there is no database to migrate: %w", core.ErrInvalidConfig)
		}

		database := provideDatabase()
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		cmd.Println("database migrated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
