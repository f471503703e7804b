package leaderboard

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	leaderboardservice "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/application"
	leaderboardevents "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/events"
	leaderboardhandlers "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/handlers"
	leaderboardmetrics "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/metrics"
	leaderboarddb "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/router"
	"github.com/Black-And-White-Club/leaderboard-api/config"
	"github.com/Black-And-White-Club/leaderboard-api/pkg/jwt"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// Observability groups the cross-cutting handles shared by the module.
type Observability struct {
	Logger  *slog.Logger
	Metrics *leaderboardmetrics.PrometheusMetrics
	Tracer  trace.Tracer
}

// Dependencies are the infrastructure handles the module is built from.
type Dependencies struct {
	Repository       leaderboarddb.Repository
	CacheStore       leaderboardservice.CacheStore
	IdempotencyStore leaderboardservice.IdempotencyStore
	// Publisher may be nil, in which case no events are emitted.
	Publisher      message.Publisher
	Tokens         jwt.Service
	Readiness      []leaderboardrouter.ReadinessCheck
	MetricsHandler http.Handler
}

// Module represents the leaderboard module.
type Module struct {
	LeaderboardService leaderboardservice.Service
	Handlers           leaderboardhandlers.Handlers
	Router             http.Handler
	config             *config.Config
	logger             *slog.Logger

	mu         sync.Mutex
	cancelFunc context.CancelFunc
}

// NewLeaderboardModule creates a new instance of the Leaderboard module.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	obs Observability,
	deps Dependencies,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule called")

	var events leaderboardservice.EventPublisher
	if deps.Publisher != nil {
		events = leaderboardevents.NewPublisher(deps.Publisher)
	}

	lb := cfg.Leaderboard
	leaderboardService := leaderboardservice.NewLeaderboardService(
		deps.Repository,
		deps.CacheStore,
		deps.IdempotencyStore,
		events,
		logger,
		metricsOrNoop(obs.Metrics),
		obs.Tracer,
		leaderboardservice.Options{
			IdempotencyTTL:                   lb.IdempotencyTTL,
			ReplayWindow:                     lb.ReplayWindow,
			CacheTTL:                         lb.CacheTTL,
			CanonicalTopN:                    lb.CanonicalTopN,
			ReleaseIdempotencyOnStoreFailure: lb.ReleaseIdempotencyOnStoreFailure,
		},
	)

	handlers := leaderboardhandlers.NewLeaderboardHandlers(leaderboardService, logger, obs.Tracer, leaderboardhandlers.QueryLimits{
		DefaultTopN:    lb.DefaultTopN,
		MaxTopN:        lb.MaxTopN,
		DefaultAroundK: lb.DefaultAroundK,
		MaxAroundK:     lb.MaxAroundK,
	})

	routerCfg := leaderboardrouter.Config{
		Handlers:       handlers,
		Tokens:         deps.Tokens,
		Logger:         logger,
		Limiter:        leaderboardhandlers.NewIPRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Readiness:      deps.Readiness,
		MetricsHandler: deps.MetricsHandler,
	}
	if obs.Metrics != nil {
		routerCfg.HTTPMetrics = obs.Metrics
	}

	return &Module{
		LeaderboardService: leaderboardService,
		Handlers:           handlers,
		Router:             leaderboardrouter.NewRouter(routerCfg),
		config:             cfg,
		logger:             logger,
	}, nil
}

func metricsOrNoop(m *leaderboardmetrics.PrometheusMetrics) leaderboardmetrics.LeaderboardMetrics {
	if m == nil {
		return leaderboardmetrics.NewNoop()
	}
	return m
}

// Run starts the leaderboard module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancelFunc = cancel
	m.mu.Unlock()
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	// Keep this goroutine alive until the context is canceled
	<-ctx.Done()
	m.logger.InfoContext(ctx, "Leaderboard module goroutine stopped")
}

// Close stops the leaderboard module and cleans up resources.
func (m *Module) Close() error {
	m.logger.Info("Stopping leaderboard module")
	m.mu.Lock()
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.mu.Unlock()
	m.logger.Info("Leaderboard module stopped")
	return nil
}
