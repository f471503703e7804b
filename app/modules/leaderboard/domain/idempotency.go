package leaderboarddomain

import (
	"strings"
	"time"
)

// ReplayReason explains why a submission was refused admission.
type ReplayReason string

const (
	ReasonMissingHeader    ReplayReason = "missing_header"
	ReasonStaleTimestamp   ReplayReason = "stale_or_future_timestamp"
	ReasonDuplicateRequest ReplayReason = "duplicate_request"
)

// Default replay protection windows.
const (
	DefaultReplayWindow   = 10 * time.Minute
	DefaultIdempotencyTTL = 5 * time.Minute
)

// WithinReplayWindow reports whether ts is no further than window from now in
// either direction. Bounds are compared directly since now.Sub(ts) saturates
// for timestamps centuries away.
func WithinReplayWindow(ts, now time.Time, window time.Duration) bool {
	return !ts.Before(now.Add(-window)) && !ts.After(now.Add(window))
}

// CheckHeaders applies the stateless part of replay protection. An empty
// reason means the request may proceed to the atomic key reservation.
func CheckHeaders(key string, ts *time.Time, now time.Time, window time.Duration) ReplayReason {
	if strings.TrimSpace(key) == "" || ts == nil {
		return ReasonMissingHeader
	}
	if !WithinReplayWindow(*ts, now, window) {
		return ReasonStaleTimestamp
	}
	return ""
}
