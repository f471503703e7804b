package leaderboardservice

import (
	"context"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	leaderboardmetrics "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/metrics"
)

var idempotencySentinel = []byte("1")

// IdempotencyGuard rejects replays. The existence check and the record
// creation are one SetIfAbsent call, so of two concurrent identical requests
// exactly one is admitted.
type IdempotencyGuard struct {
	store   IdempotencyStore
	ttl     time.Duration
	window  time.Duration
	metrics leaderboardmetrics.LeaderboardMetrics
	now     func() time.Time
}

func NewIdempotencyGuard(
	store IdempotencyStore,
	ttl, window time.Duration,
	metrics leaderboardmetrics.LeaderboardMetrics,
	now func() time.Time,
) *IdempotencyGuard {
	if metrics == nil {
		metrics = leaderboardmetrics.NewNoop()
	}
	if now == nil {
		now = time.Now
	}
	return &IdempotencyGuard{store: store, ttl: ttl, window: window, metrics: metrics, now: now}
}

// Check admits the request or returns a *ReplayError. Store failures are
// returned wrapped in ErrStoreUnavailable and the request is not admitted.
func (g *IdempotencyGuard) Check(ctx context.Context, callerID, key string, ts *time.Time) error {
	now := g.now()

	if reason := leaderboarddomain.CheckHeaders(key, ts, now, g.window); reason != "" {
		if ts != nil {
			g.metrics.RecordRequestTimestampAge(ctx, "rejected", now.Sub(*ts))
		}
		g.metrics.RecordReplayRejection(ctx, string(reason))
		return &ReplayError{Reason: reason}
	}

	created, err := g.store.SetIfAbsent(ctx, leaderboarddomain.IdempotencyKey(callerID, key), idempotencySentinel, g.ttl)
	if err != nil {
		return storeUnavailable("IdempotencyGuard.Check", err)
	}
	if !created {
		g.metrics.RecordReplayRejection(ctx, string(leaderboarddomain.ReasonDuplicateRequest))
		g.metrics.RecordIdempotencyConflict(ctx)
		return &ReplayError{Reason: leaderboarddomain.ReasonDuplicateRequest}
	}

	g.metrics.RecordRequestTimestampAge(ctx, "accepted", now.Sub(*ts))
	return nil
}

// Release forgets a recorded key so the same key may be retried.
func (g *IdempotencyGuard) Release(ctx context.Context, callerID, key string) error {
	if err := g.store.Delete(ctx, leaderboarddomain.IdempotencyKey(callerID, key)); err != nil {
		return storeUnavailable("IdempotencyGuard.Release", err)
	}
	return nil
}
