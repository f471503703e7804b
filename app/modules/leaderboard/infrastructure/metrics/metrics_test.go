package leaderboardmetrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreRange(t *testing.T) {
	tests := map[int64]string{
		0:      "0-999",
		999:    "0-999",
		1000:   "1000-4999",
		4999:   "1000-4999",
		5000:   "5000-9999",
		10000:  "10000-49999",
		49999:  "10000-49999",
		50000:  "50000+",
		900000: "50000+",
	}
	for score, want := range tests {
		assert.Equal(t, want, ScoreRange(score), "score=%d", score)
	}
}

func TestPrometheusMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg)
	ctx := context.Background()

	m.RecordScoreSubmission(ctx, "Classic", 1575)
	m.RecordScoreSubmission(ctx, "Classic", 1200)
	m.RecordReplayRejection(ctx, "duplicate_request")
	m.RecordCacheHit(ctx, "Tournament")
	m.RecordHTTPRequest("GET", "/leaderboard/top/{gameMode}", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.scoreSubmissions.WithLabelValues("1000-4999", "Classic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.replayRejections.WithLabelValues("duplicate_request")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHits.WithLabelValues("Tournament")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/leaderboard/top/{gameMode}", "200", "200")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
