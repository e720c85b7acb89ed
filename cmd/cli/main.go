package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/cmd/cli/commands"
	"github.com/oivas000/duty-roster/internal/config"
	"github.com/oivas000/duty-roster/pkg/db"
	"github.com/oivas000/duty-roster/pkg/metrics"
	"github.com/oivas000/duty-roster/pkg/postgres"
	"github.com/oivas000/duty-roster/pkg/sqlite"
	"github.com/oivas000/duty-roster/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "roster",
		Short: "Duty Roster CLI - Generate monthly duty rosters",
		Long: `A CLI tool for generating monthly duty rosters: three timeslots a day, one member
per role, fair rotation through persistent weights and repair of repetitions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.GenerateCmd(app))
	rootCmd.AddCommand(commands.ResetWeightsCmd(app))
	rootCmd.AddCommand(commands.ListMembersCmd(app))
	rootCmd.AddCommand(commands.ImportMembersCmd(app))
	rootCmd.AddCommand(commands.ListRunsCmd(app))
	rootCmd.AddCommand(commands.StatsCmd(app))
	rootCmd.AddCommand(commands.ExportCmd(app))
	rootCmd.AddCommand(commands.PublishCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		closeApp()
		os.Exit(1)
	}
}

// initApp sets up logger, config, database and metrics
func initApp() error {
	var err error
	app.Env = env
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, err = logging.InitLogger(env, logging.Options{Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.Logger.Debug("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.String("driver", app.Cfg.Database.Driver),
		zap.Int("roles", len(app.Cfg.Roles)),
		zap.String("fill_order", app.Cfg.FillOrder))

	// Open the store
	app.Database, err = openDatabase(app.Ctx, app.Cfg.Database)
	if err != nil {
		return err
	}

	app.Logger.Debug("Running migrations")
	if err := app.Database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Logger.Debug("Database initialized successfully")

	app.Metrics = metrics.NewPrometheus("")

	return nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (db.Database, error) {
	switch cfg.Driver {
	case "postgres":
		database, err := postgres.NewDB(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return database, nil
	case "sqlite":
		database, err := sqlite.NewDB(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return database, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// closeApp flushes metrics and logs and closes the store. Safe to call twice.
func closeApp() {
	if app.Metrics != nil && app.Cfg != nil && app.Cfg.Metrics.Textfile != "" {
		if p, ok := app.Metrics.(*metrics.Prometheus); ok {
			if err := p.WriteTextfile(app.Cfg.Metrics.Textfile); err != nil && app.Logger != nil {
				app.Logger.Warn("Failed to write metrics", zap.Error(err))
			}
		}
		app.Metrics = nil
	}

	if app.Database != nil {
		if err := app.Database.Close(); err != nil && app.Logger != nil {
			app.Logger.Warn("Failed to close database", zap.Error(err))
		}
		app.Database = nil
	}

	if app.Logger != nil {
		app.Logger.Sync()
	}
}
