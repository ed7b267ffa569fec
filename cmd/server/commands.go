package main

import (
	"context"
	"fmt"

	"github.com/dadok/readingclub/internal/auth"
	"github.com/dadok/readingclub/internal/domain"
	"github.com/dadok/readingclub/internal/service"
	sqlstore "github.com/dadok/readingclub/internal/storage/sql"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply every pending migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					return runMigrate(false)
				},
			},
			{
				Name:  "status",
				Usage: "Show the state of every migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					return runMigrate(true)
				},
			},
		},
	}
}

func runMigrate(statusOnly bool) error {
	cfg, logger, err := setup(false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := ensureDataDir(cfg.Database); err != nil {
		return err
	}
	db, err := sqlstore.Connect(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if statusOnly {
		return sqlstore.MigrationStatus(db, cfg.Database.Driver, logger)
	}
	if err := sqlstore.Migrate(db, cfg.Database.Driver, logger); err != nil {
		return err
	}
	logger.Info("migrations applied", zap.String("db_driver", cfg.Database.Driver))
	return nil
}

// userCommand creates users outside the login flow, for local development
// and operations.
func userCommand() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Manage users",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Create a user and its bookshelf",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "nickname", Usage: "Unique nickname", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Display name"},
					&cli.StringFlag{Name: "email", Usage: "Email address"},
					&cli.StringFlag{Name: "provider", Usage: "Auth provider", Value: "LOCAL"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, logger, err := setup(false)
					if err != nil {
						return err
					}
					defer logger.Sync()

					store, err := openStore(cfg, logger)
					if err != nil {
						return err
					}
					defer store.Close()

					jobs, err := service.LoadJobTable(ctx, store)
					if err != nil {
						return err
					}
					users := service.New(store, jobs, logger, service.SystemClock).Users

					name := c.String("name")
					if name == "" {
						name = c.String("nickname")
					}
					user := &domain.User{
						Name:         name,
						Nickname:     c.String("nickname"),
						Email:        c.String("email"),
						AuthProvider: c.String("provider"),
					}
					if err := users.Create(ctx, user); err != nil {
						return err
					}
					fmt.Printf("created user %d (%s)\n", user.ID, user.Nickname)
					return nil
				},
			},
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Manage access tokens",
		Commands: []*cli.Command{
			{
				Name:  "issue",
				Usage: "Issue a bearer token for a user",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "user-id", Usage: "User id the token authenticates", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, logger, err := setup(true)
					if err != nil {
						return err
					}
					defer logger.Sync()

					tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTTTL)
					token, err := tokens.Issue(c.Int64("user-id"))
					if err != nil {
						return err
					}
					fmt.Println(token)
					return nil
				},
			},
		},
	}
}
