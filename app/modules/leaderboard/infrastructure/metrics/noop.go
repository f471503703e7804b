package leaderboardmetrics

import (
	"context"
	"time"
)

// NoOpMetrics discards everything. Used in tests and when metrics are disabled.
type NoOpMetrics struct{}

// NewNoop returns a metrics sink that records nothing.
func NewNoop() *NoOpMetrics { return &NoOpMetrics{} }

var (
	_ LeaderboardMetrics = (*NoOpMetrics)(nil)
	_ HTTPMetrics        = (*NoOpMetrics)(nil)
	_ LeaderboardMetrics = (*PrometheusMetrics)(nil)
	_ HTTPMetrics        = (*PrometheusMetrics)(nil)
)

func (NoOpMetrics) RecordOperationAttempt(context.Context, string, string) {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string, string) {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string, string) {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoOpMetrics) RecordScoreSubmission(context.Context, string, int64) {}
func (NoOpMetrics) RecordBonusUsage(context.Context, string, string, int64) {}
func (NoOpMetrics) RecordReplayRejection(context.Context, string) {}
func (NoOpMetrics) RecordIdempotencyConflict(context.Context) {}
func (NoOpMetrics) RecordRequestTimestampAge(context.Context, string, time.Duration) {}
func (NoOpMetrics) RecordCacheHit(context.Context, string) {}
func (NoOpMetrics) RecordCacheMiss(context.Context, string) {}
func (NoOpMetrics) RecordCacheRewarmFailure(context.Context, string) {}
func (NoOpMetrics) RecordEventPublishFailure(context.Context, string) {}
func (NoOpMetrics) StartHTTPRequest(string, string) {}
func (NoOpMetrics) EndHTTPRequest(string, string) {}
func (NoOpMetrics) RecordHTTPRequest(string, string, int, time.Duration) {}
