package cmd

import (
	"fmt"

	"showtime-manager/core/config"
	"showtime-manager/core/database"
	"showtime-manager/core/logger"
	"showtime-manager/feature/showtimes/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or updates the showtime tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the showtime tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}

		if err := database.Migrate(db, models.All()...); err != nil {
			return err
		}
		logg.Info("Showtime tables migrated", zap.String("driver", cfg.Database.Driver), zap.Int("tables", len(models.All())))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
