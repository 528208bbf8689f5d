package commands

import (
	"fmt"

	"github.com/d1s-utils/hole/internal/infrastructure/persistence"
	"github.com/d1s-utils/hole/internal/infrastructure/persistence/migrations"
	"github.com/d1s-utils/hole/internal/pkg/config"
	"github.com/d1s-utils/hole/internal/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// MigrateCommandHandler applies schema migrations to the database of a server configuration.
type MigrateCommandHandler struct {
	logger logger.Logger
}

// NewMigrateCommandHandler initializes a MigrateCommandHandler
func NewMigrateCommandHandler() (*MigrateCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	return &MigrateCommandHandler{logger: loggerInstance}, nil
}

// UpCmd applies all pending migrations
func (h *MigrateCommandHandler) UpCmd(cmd *cobra.Command, _ []string) error {
	return h.withDatabase(cmd, func(settings config.DatabaseSettings, db *gorm.DB) error {
		return migrations.Up(db, settings.Type, h.logger)
	})
}

// DownCmd reverts all migrations, dropping every hole table
func (h *MigrateCommandHandler) DownCmd(cmd *cobra.Command, _ []string) error {
	return h.withDatabase(cmd, func(settings config.DatabaseSettings, db *gorm.DB) error {
		if err := migrations.Down(db, settings.Type); err != nil {
			return err
		}
		h.logger.Info("Schema dropped", "type", settings.Type)
		return nil
	})
}

func (h *MigrateCommandHandler) withDatabase(cmd *cobra.Command, fn func(config.DatabaseSettings, *gorm.DB) error) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("invalid config flag: %w", err)
	}

	cfg, err := config.InitializeRestConfig(path)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create db connection: %w", err)
	}
	defer func() {
		if err := persistence.CloseDB(db); err != nil {
			h.logger.Warn("failed to close database", "error", err)
		}
	}()

	return fn(cfg.Database, db)
}

// InitMigrateCommands registers the migrate command with its up and down sub-commands
func InitMigrateCommands(rootCmd *cobra.Command) error {
	handler, err := NewMigrateCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create migrate command handler: %w", err)
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	migrateCmd.PersistentFlags().String("config", "configs/rest-app.yaml", "Path to the server configuration")

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  handler.UpCmd,
	}, &cobra.Command{
		Use:   "down",
		Short: "Revert all migrations",
		RunE:  handler.DownCmd,
	})

	rootCmd.AddCommand(migrateCmd)
	return nil
}
