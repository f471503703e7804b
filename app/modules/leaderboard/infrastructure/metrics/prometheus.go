package leaderboardmetrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "leaderboard"

// PrometheusMetrics implements LeaderboardMetrics and HTTPMetrics.
type PrometheusMetrics struct {
	operationAttempts  *prometheus.CounterVec
	operationSuccesses *prometheus.CounterVec
	operationFailures  *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec

	scoreSubmissions     *prometheus.CounterVec
	bonusUsage           *prometheus.CounterVec
	bonusAmount          *prometheus.HistogramVec
	replayRejections     *prometheus.CounterVec
	idempotencyConflicts prometheus.Counter
	timestampAge         *prometheus.HistogramVec

	cacheHits            *prometheus.CounterVec
	cacheMisses          *prometheus.CounterVec
	cacheRewarmFailures  *prometheus.CounterVec
	eventPublishFailures *prometheus.CounterVec

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	httpInProgress *prometheus.GaugeVec
}

// NewPrometheus creates and registers every collector on reg.
func NewPrometheus(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		operationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "operation_attempts_total",
			Help: "Service operations started",
		}, []string{"operation", "service"}),
		operationSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "operation_success_total",
			Help: "Service operations completed without infrastructure error",
		}, []string{"operation", "service"}),
		operationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "operation_failures_total",
			Help: "Service operations that failed with an infrastructure error or panic",
		}, []string{"operation", "service"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "operation_duration_seconds",
			Help:    "Service operation duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "service"}),

		scoreSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "score_submissions_total",
			Help: "Total number of score submissions",
		}, []string{"score_range", "game_mode"}),
		bonusUsage: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "bonus_usage_total",
			Help: "Total number of bonus usage",
		}, []string{"bonus_type", "game_mode"}),
		bonusAmount: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "bonus_amount",
			Help:    "Bonus amount distribution",
			Buckets: []float64{0, 10, 50, 100, 500, 1000},
		}, []string{"bonus_type", "game_mode"}),
		replayRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "replay_attack_attempts_total",
			Help: "Submissions rejected by replay protection",
		}, []string{"reason"}),
		idempotencyConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "idempotency_conflicts_total",
			Help: "Submissions rejected because the idempotency key was already used",
		}),
		timestampAge: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "request_timestamp_age_seconds",
			Help:    "Absolute distance between the request timestamp and server time",
			Buckets: []float64{1, 5, 10, 30, 60, 300, 600},
		}, []string{"status"}),

		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_hits_total",
			Help: "Top-N snapshot cache hits",
		}, []string{"game_mode"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_misses_total",
			Help: "Top-N snapshot cache misses",
		}, []string{"game_mode"}),
		cacheRewarmFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_rewarm_failures_total",
			Help: "Canonical snapshot rewarms that failed after a write",
		}, []string{"game_mode"}),
		eventPublishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "event_publish_failures_total",
			Help: "Events that could not be published",
		}, []string{"topic"}),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status_code", "status_class"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		}, []string{"method", "path", "status_code"}),
		httpInProgress: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "http_requests_in_progress",
			Help: "Number of HTTP requests currently in progress",
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		m.operationAttempts, m.operationSuccesses, m.operationFailures, m.operationDuration,
		m.scoreSubmissions, m.bonusUsage, m.bonusAmount,
		m.replayRejections, m.idempotencyConflicts, m.timestampAge,
		m.cacheHits, m.cacheMisses, m.cacheRewarmFailures, m.eventPublishFailures,
		m.httpRequests, m.httpDuration, m.httpInProgress,
	)
	return m
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.operationAttempts.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.operationSuccesses.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.operationFailures.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.operationDuration.WithLabelValues(operation, service).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordScoreSubmission(_ context.Context, gameMode string, finalScore int64) {
	m.scoreSubmissions.WithLabelValues(ScoreRange(finalScore), gameMode).Inc()
}

func (m *PrometheusMetrics) RecordBonusUsage(_ context.Context, bonusType, gameMode string, amount int64) {
	m.bonusUsage.WithLabelValues(bonusType, gameMode).Inc()
	m.bonusAmount.WithLabelValues(bonusType, gameMode).Observe(float64(amount))
}

func (m *PrometheusMetrics) RecordReplayRejection(_ context.Context, reason string) {
	m.replayRejections.WithLabelValues(reason).Inc()
}

func (m *PrometheusMetrics) RecordIdempotencyConflict(_ context.Context) {
	m.idempotencyConflicts.Inc()
}

func (m *PrometheusMetrics) RecordRequestTimestampAge(_ context.Context, status string, age time.Duration) {
	if age < 0 {
		age = -age
	}
	m.timestampAge.WithLabelValues(status).Observe(age.Seconds())
}

func (m *PrometheusMetrics) RecordCacheHit(_ context.Context, gameMode string) {
	m.cacheHits.WithLabelValues(gameMode).Inc()
}

func (m *PrometheusMetrics) RecordCacheMiss(_ context.Context, gameMode string) {
	m.cacheMisses.WithLabelValues(gameMode).Inc()
}

func (m *PrometheusMetrics) RecordCacheRewarmFailure(_ context.Context, gameMode string) {
	m.cacheRewarmFailures.WithLabelValues(gameMode).Inc()
}

func (m *PrometheusMetrics) RecordEventPublishFailure(_ context.Context, topic string) {
	m.eventPublishFailures.WithLabelValues(topic).Inc()
}

func (m *PrometheusMetrics) StartHTTPRequest(method, route string) {
	m.httpInProgress.WithLabelValues(method, route).Inc()
}

func (m *PrometheusMetrics) EndHTTPRequest(method, route string) {
	m.httpInProgress.WithLabelValues(method, route).Dec()
}

func (m *PrometheusMetrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	class := strconv.Itoa(status / 100 * 100)
	m.httpRequests.WithLabelValues(method, route, code, class).Inc()
	m.httpDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
}
