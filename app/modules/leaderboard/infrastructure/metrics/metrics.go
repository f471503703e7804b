package leaderboardmetrics

import (
	"context"
	"time"
)

// LeaderboardMetrics is the metrics surface used by the leaderboard service.
type LeaderboardMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration)

	RecordScoreSubmission(ctx context.Context, gameMode string, finalScore int64)
	RecordBonusUsage(ctx context.Context, bonusType, gameMode string, amount int64)

	RecordReplayRejection(ctx context.Context, reason string)
	RecordIdempotencyConflict(ctx context.Context)
	RecordRequestTimestampAge(ctx context.Context, status string, age time.Duration)

	RecordCacheHit(ctx context.Context, gameMode string)
	RecordCacheMiss(ctx context.Context, gameMode string)
	RecordCacheRewarmFailure(ctx context.Context, gameMode string)

	RecordEventPublishFailure(ctx context.Context, topic string)
}

// HTTPMetrics is recorded by the HTTP middleware chain.
type HTTPMetrics interface {
	StartHTTPRequest(method, route string)
	EndHTTPRequest(method, route string)
	RecordHTTPRequest(method, route string, status int, d time.Duration)
}

// ScoreRange buckets a score for the submissions counter.
func ScoreRange(score int64) string {
	switch {
	case score < 1000:
		return "0-999"
	case score < 5000:
		return "1000-4999"
	case score < 10000:
		return "5000-9999"
	case score < 50000:
		return "10000-49999"
	default:
		return "50000+"
	}
}
