package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dadok/readingclub/internal/config"
	"github.com/dadok/readingclub/internal/logging"
	sqlstore "github.com/dadok/readingclub/internal/storage/sql"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	app := &cli.Command{
		Name:  "readingclub",
		Usage: "Reading community API server",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			userCommand(),
			tokenCommand(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServe(ctx)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads configuration and builds the logger every command uses.
func setup(validate bool) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, logger, nil
}

// openStore opens the configured database and applies pending migrations.
func openStore(cfg *config.Config, logger *zap.Logger) (*sqlstore.Store, error) {
	if err := ensureDataDir(cfg.Database); err != nil {
		return nil, err
	}
	strategy, err := cfg.Database.CountStrategy()
	if err != nil {
		return nil, err
	}
	store, err := sqlstore.New(cfg.Database.Driver, cfg.Database.DSN,
		sqlstore.WithCountStrategy(strategy),
		sqlstore.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

// ensureDataDir creates the directory of a file-backed SQLite database.
func ensureDataDir(db config.DatabaseConfig) error {
	if db.Driver != sqlstore.DriverSQLite || strings.HasPrefix(db.DSN, ":memory:") || strings.HasPrefix(db.DSN, "file:") {
		return nil
	}
	dir := filepath.Dir(db.DSN)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}
