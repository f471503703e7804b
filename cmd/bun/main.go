package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	leaderboardmigrations "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/leaderboard-api/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "bun",
		Usage: "leaderboard database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "Path to the configuration file",
				EnvVars: []string{"CONFIG_FILE"},
			},
			&cli.StringFlag{
				Name:    "dsn",
				Usage:   "Postgres DSN, overrides the config file",
				EnvVars: []string{"DATABASE_URL"},
			},
		},
		Commands: []*cli.Command{
			newDBCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openMigrator connects using only the Postgres settings. The full config is
// loaded only when no DSN was given directly.
func openMigrator(c *cli.Context) (*migrate.Migrator, func() error, error) {
	dsn := c.String("dsn")
	if dsn == "" {
		cfg, err := config.LoadConfig(c.String("config"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		dsn = cfg.Postgres.DSN
	}

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(pgdb, pgdialect.New())
	return migrate.NewMigrator(db, leaderboardmigrations.Migrations), db.Close, nil
}

// withMigrator runs fn against a migrator and closes the connection afterwards.
func withMigrator(fn func(c *cli.Context, m *migrate.Migrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		m, closeDB, err := openMigrator(c)
		if err != nil {
			return err
		}
		defer closeDB()
		return fn(c, m)
	}
}

func newDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrator) error {
					return m.Init(c.Context)
				}),
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrator) error {
					if err := m.Lock(c.Context); err != nil {
						return err
					}
					defer m.Unlock(c.Context) //nolint:errcheck

					group, err := m.Migrate(c.Context)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Println("No new migrations to run")
						return nil
					}
					fmt.Printf("Migrated to %s\n", group)
					return nil
				}),
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrator) error {
					if err := m.Lock(c.Context); err != nil {
						return err
					}
					defer m.Unlock(c.Context) //nolint:errcheck

					group, err := m.Rollback(c.Context)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Println("No groups to roll back")
						return nil
					}
					fmt.Printf("Rolled back %s\n", group)
					return nil
				}),
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<name words...>",
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrator) error {
					name := strings.Join(c.Args().Slice(), "_")
					mf, err := m.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration %s (%s)\n", mf.Name, mf.Path)
					return nil
				}),
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "<name words...>",
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrator) error {
					name := strings.Join(c.Args().Slice(), "_")
					files, err := m.CreateSQLMigrations(c.Context, name)
					if err != nil {
						return err
					}
					for _, mf := range files {
						fmt.Printf("Created migration %s (%s)\n", mf.Name, mf.Path)
					}
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrator) error {
					ms, err := m.MigrationsWithStatus(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("migrations: %s\n", ms)
					fmt.Printf("applied: %s\n", ms.Applied())
					fmt.Printf("unapplied: %s\n", ms.Unapplied())
					fmt.Printf("last migration group: %s\n", ms.LastGroup())
					return nil
				}),
			},
		},
	}
}
