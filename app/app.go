package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/Black-And-White-Club/leaderboard-api/app/eventbus"
	"github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard"
	leaderboardmetrics "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/metrics"
	"github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/redisstore"
	leaderboarddb "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/router"
	"github.com/Black-And-White-Club/leaderboard-api/config"
	"github.com/Black-And-White-Club/leaderboard-api/pkg/jwt"
	"github.com/Black-And-White-Club/leaderboard-api/pkg/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// App holds the process-wide resources and the leaderboard module.
type App struct {
	Config            *config.Config
	Logger            *slog.Logger
	DB                *bun.DB
	Redis             *redisstore.Store
	Publisher         message.Publisher
	Registry          *prometheus.Registry
	LeaderboardModule *leaderboard.Module

	shutdownTracing func(context.Context) error
	server          *http.Server
	metricsServer   *http.Server
	wg              sync.WaitGroup
}

// NewApp initializes the application with the necessary services and configuration.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obsCfg := cfg.Observability
	logger := observability.NewLogger(os.Stdout, observability.LoggerConfig{
		Application: obsCfg.ServiceName,
		Environment: obsCfg.Environment,
		Level:       obsCfg.LogLevel,
	})

	tracer, shutdownTracing, err := observability.SetupTracing(ctx, observability.TracingConfig{
		ServiceName:  obsCfg.ServiceName,
		Environment:  obsCfg.Environment,
		OTLPEndpoint: obsCfg.OTLPEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	app := &App{
		Config:          cfg,
		Logger:          logger,
		shutdownTracing: shutdownTracing,
	}

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := leaderboardmetrics.NewPrometheus(app.Registry)

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	app.DB = bun.NewDB(pgdb, pgdialect.New())

	app.Redis, err = redisstore.New(redisstore.Options{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if cfg.NATS.URL != "" {
		app.Publisher, err = eventbus.NewPublisher(cfg.NATS.URL, logger)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("failed to create event publisher: %w", err)
		}
	} else {
		logger.WarnContext(ctx, "NATS URL not configured, score events will not be published")
		app.Publisher = eventbus.NopPublisher{}
	}

	metricsHandler := promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{Registry: app.Registry})

	deps := leaderboard.Dependencies{
		Repository:       leaderboarddb.NewRepository(app.DB),
		CacheStore:       app.Redis,
		IdempotencyStore: app.Redis,
		Publisher:        app.Publisher,
		Tokens:           jwt.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.DefaultTTL),
		Readiness: []leaderboardrouter.ReadinessCheck{
			{Name: "postgres", Check: app.DB.PingContext},
			{Name: "redis", Check: app.Redis.Ping},
		},
	}
	// With a metrics address configured, /metrics gets its own listener.
	if obsCfg.MetricsAddress == "" {
		deps.MetricsHandler = metricsHandler
	} else {
		app.metricsServer = &http.Server{Addr: obsCfg.MetricsAddress, Handler: metricsHandler}
	}

	app.LeaderboardModule, err = leaderboard.NewLeaderboardModule(ctx, cfg, leaderboard.Observability{
		Logger:  logger,
		Metrics: metrics,
		Tracer:  tracer,
	}, deps)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}

	app.server = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           app.LeaderboardModule.Router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return app, nil
}

// Close releases every resource opened by NewApp. It is safe to call on a
// partially initialized App.
func (app *App) Close() error {
	var errs []error

	if app.LeaderboardModule != nil {
		if err := app.LeaderboardModule.Close(); err != nil {
			errs = append(errs, fmt.Errorf("leaderboard module: %w", err))
		}
	}
	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if app.Redis != nil {
		app.Redis.Close()
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	if app.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.shutdownTracing(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracing: %w", err))
		}
	}

	return errors.Join(errs...)
}
