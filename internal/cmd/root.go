package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/orders/internal/config"
	"github.com/matthieukhl/orders/internal/database"
	"github.com/matthieukhl/orders/internal/logger"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "orders",
	Short: "Orders - REST service for orders and their items",
	Long: `Orders serves a JSON REST API for orders and the items they own,
backed by sqlite, MySQL or PostgreSQL.

Configuration is read from config.yaml (./deploy, ., $HOME/.orders or
/etc/orders) and ORDERS_* environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config file (overrides the search path)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadConfigFile(configFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logger.New(logger.Options{
		Service: "orders",
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cmd.ErrOrStderr(),
	})
}

// openDatabase connects and brings the schema up to date
func openDatabase(cfg *config.Config) (*database.DB, error) {
	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return db, nil
}
