package leaderboardservice

import (
	"errors"
	"fmt"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
)

// Error taxonomy of the leaderboard service.
var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation error")

	// ErrReplayRejected marks a stale/future timestamp or a reused idempotency key.
	ErrReplayRejected = errors.New("replay rejected")

	// ErrNotFound indicates the caller has no entry in the requested game mode.
	ErrNotFound = errors.New("User not found in leaderboard")

	// ErrStoreUnavailable wraps infrastructure failures of the score or idempotency store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrCacheUnavailable is only ever logged; reads fall back to the store.
	ErrCacheUnavailable = errors.New("cache unavailable")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ReplayError is returned by the idempotency guard. A missing header is a
// validation failure; the other reasons are replay rejections.
type ReplayError struct {
	Reason leaderboarddomain.ReplayReason
}

func (e *ReplayError) Error() string {
	switch e.Reason {
	case leaderboarddomain.ReasonMissingHeader:
		return "missing Idempotency-Key or X-Timestamp header"
	case leaderboarddomain.ReasonStaleTimestamp:
		return "request timestamp is outside the allowed window"
	case leaderboarddomain.ReasonDuplicateRequest:
		return "duplicate request"
	default:
		return "replay rejected: " + string(e.Reason)
	}
}

func (e *ReplayError) Unwrap() error {
	if e.Reason == leaderboarddomain.ReasonMissingHeader {
		return ErrValidation
	}
	return ErrReplayRejected
}

// storeUnavailable tags err so callers can match ErrStoreUnavailable while
// keeping the underlying cause.
func storeUnavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// isBusinessFailure reports whether err is an expected rejection rather than
// an infrastructure fault.
func isBusinessFailure(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrReplayRejected) || errors.Is(err, ErrNotFound)
}
