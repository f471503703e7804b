package leaderboardhandlers

import (
	"log/slog"

	leaderboardservice "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/application"
	"go.opentelemetry.io/otel/trace"
)

// QueryLimits bounds the n and k query parameters.
type QueryLimits struct {
	DefaultTopN    int
	MaxTopN        int
	DefaultAroundK int
	MaxAroundK     int
}

// DefaultQueryLimits returns the production bounds.
func DefaultQueryLimits() QueryLimits {
	return QueryLimits{
		DefaultTopN:    100,
		MaxTopN:        1000,
		DefaultAroundK: 5,
		MaxAroundK:     50,
	}
}

// LeaderboardHandlers serves the leaderboard HTTP routes.
type LeaderboardHandlers struct {
	leaderboardService leaderboardservice.Service
	logger             *slog.Logger
	tracer             trace.Tracer
	limits             QueryLimits
}

// NewLeaderboardHandlers creates a new instance of LeaderboardHandlers.
func NewLeaderboardHandlers(
	leaderboardService leaderboardservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	limits QueryLimits,
) Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardHandlers{
		leaderboardService: leaderboardService,
		logger:             logger,
		tracer:             tracer,
		limits:             limits,
	}
}
