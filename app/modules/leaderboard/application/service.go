package leaderboardservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	leaderboardmetrics "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/metrics"
	leaderboarddb "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/leaderboard-api/pkg/observability"
	"github.com/Black-And-White-Club/leaderboard-api/pkg/results"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "LeaderboardService"

// Options tunes replay protection and caching.
type Options struct {
	IdempotencyTTL                   time.Duration
	ReplayWindow                     time.Duration
	CacheTTL                         time.Duration
	CanonicalTopN                    int
	ReleaseIdempotencyOnStoreFailure bool
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		IdempotencyTTL: leaderboarddomain.DefaultIdempotencyTTL,
		ReplayWindow:   leaderboarddomain.DefaultReplayWindow,
		CacheTTL:       5 * time.Minute,
		CanonicalTopN:  100,
	}
}

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	repo    leaderboarddb.Repository
	guard   *IdempotencyGuard
	cache   *SnapshotCache
	events  EventPublisher
	logger  *slog.Logger
	metrics leaderboardmetrics.LeaderboardMetrics
	tracer  trace.Tracer
	opts    Options
	now     func() time.Time
}

// NewLeaderboardService wires the service from explicit handles. events may be nil.
func NewLeaderboardService(
	repo leaderboarddb.Repository,
	cacheStore CacheStore,
	idempotencyStore IdempotencyStore,
	events EventPublisher,
	logger *slog.Logger,
	metrics leaderboardmetrics.LeaderboardMetrics,
	tracer trace.Tracer,
	opts Options,
) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = leaderboardmetrics.NewNoop()
	}
	s := &LeaderboardService{
		repo:    repo,
		events:  events,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		opts:    opts,
		now:     func() time.Time { return time.Now().UTC() },
	}
	s.guard = NewIdempotencyGuard(idempotencyStore, opts.IdempotencyTTL, opts.ReplayWindow, metrics, s.clock)
	s.cache = NewSnapshotCache(cacheStore, opts.CacheTTL, logger, metrics)
	return s
}

func (s *LeaderboardService) clock() time.Time { return s.now() }

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *LeaderboardService,
	ctx context.Context,
	operationName string,
	mode leaderboarddomain.GameMode,
	playerID string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	attrs := []any{
		observability.CorrelationID(ctx),
		slog.String("operation", operationName),
		slog.String("game_mode", mode.String()),
	}
	if playerID != "" {
		attrs = append(attrs, slog.String("player_id", playerID))
	}

	// Start span
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("game_mode", mode.String()),
			attribute.String("player_id", playerID),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	s.logger.DebugContext(ctx, "Operation triggered", attrs...)

	// Panic recovery
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered", append(attrs, observability.ErrorAttr(err))...)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	// Infrastructure error
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error", append(attrs, observability.ErrorAttr(wrappedErr))...)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	// Business rejection
	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			append(attrs, slog.Any("failure_payload", *result.Failure))...)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully", attrs...)
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// unwrap converts an operation result into the (value, error) shape handlers consume.
func unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if result.Success == nil {
		return zero, fmt.Errorf("%s: empty operation result", serviceName)
	}
	return *result.Success, nil
}
