package leaderboarddb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the player has no entry in the requested game mode.
	ErrNotFound = errors.New("leaderboard entry not found")

	// ErrInvalidWindow indicates a negative offset or non-positive limit.
	ErrInvalidWindow = errors.New("invalid ranking window")
)
