//go:build integration

package testutils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/redis/rueidis"
	"github.com/testcontainers/testcontainers-go"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/migrate"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/redisstore"
	leaderboardmigrations "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/leaderboard-api/integration_tests/containers"
)

// TestEnvironment holds the containers and connections shared by a test package.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc

	PgContainer    testcontainers.Container
	RedisContainer testcontainers.Container
	NatsContainer  testcontainers.Container

	PgConnStr string
	RedisAddr string
	NatsURL   string

	DB          *bun.DB
	RedisClient rueidis.Client
	Store       *redisstore.Store
}

// NewTestEnvironment starts Postgres, Redis and NATS and applies migrations.
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())
	env := &TestEnvironment{Ctx: ctx, CancelContext: cancel}

	if err := env.setup(ctx); err != nil {
		env.Cleanup()
		return nil, err
	}
	return env, nil
}

func (env *TestEnvironment) setup(ctx context.Context) error {
	pgContainer, pgConnStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.PgContainer, env.PgConnStr = pgContainer, pgConnStr

	redisContainer, redisAddr, err := containers.SetupRedisContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup redis container: %w", err)
	}
	env.RedisContainer, env.RedisAddr = redisContainer, redisAddr

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup nats container: %w", err)
	}
	env.NatsContainer, env.NatsURL = natsContainer, natsURL

	sqlDB, err := sql.Open("pgx", pgConnStr)
	if err != nil {
		return fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	env.DB = bun.NewDB(sqlDB, pgdialect.New())

	if err := runMigrations(ctx, env.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{redisAddr},
		DisableCache: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	env.RedisClient = client
	env.Store = redisstore.NewFromClient(client)

	return nil
}

func runMigrations(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, leaderboardmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Reset empties the score table and the Redis keyspace between tests.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	if _, err := env.DB.NewTruncateTable().TableExpr("leaderboard_entries").Exec(ctx); err != nil {
		return fmt.Errorf("failed to truncate leaderboard_entries: %w", err)
	}
	if err := env.RedisClient.Do(ctx, env.RedisClient.B().Flushdb().Build()).Error(); err != nil {
		return fmt.Errorf("failed to flush redis: %w", err)
	}
	return nil
}

// Cleanup closes connections and terminates every started container.
func (env *TestEnvironment) Cleanup() {
	if env.RedisClient != nil {
		env.RedisClient.Close()
	}
	if env.DB != nil {
		if err := env.DB.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}

	var errs []error
	for _, c := range []testcontainers.Container{env.NatsContainer, env.RedisContainer, env.PgContainer} {
		if c == nil {
			continue
		}
		if err := testcontainers.TerminateContainer(c); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		log.Printf("Error terminating containers: %v", err)
	}

	if env.CancelContext != nil {
		env.CancelContext()
	}
}
