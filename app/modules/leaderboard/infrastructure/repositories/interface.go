package leaderboarddb

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	"github.com/uptrace/bun"
)

// Repository is the score store. Every query orders entries by the same
// chain as leaderboarddomain.Compare.
//
// Error semantics:
//   - ErrNotFound: the player has no entry in that game mode
//   - ErrInvalidWindow: offset/limit outside the accepted range
//   - Other errors: infrastructure failures (DB connection, query errors)
type Repository interface {
	// UpsertEntry inserts or replaces the score for (player, mode) in one
	// statement and returns the stored row. Registration date is only set on insert.
	UpsertEntry(ctx context.Context, db bun.IDB, in ScoreUpsert) (leaderboarddomain.Entry, error)

	// GetEntry retrieves a single player's entry.
	GetEntry(ctx context.Context, db bun.IDB, playerID string, mode leaderboarddomain.GameMode) (leaderboarddomain.Entry, error)

	// QueryOrdered returns up to limit entries starting at offset in ranking order.
	QueryOrdered(ctx context.Context, db bun.IDB, mode leaderboarddomain.GameMode, offset, limit int) ([]leaderboarddomain.Entry, error)

	// CountBefore counts entries of mode ordered strictly before the player's entry.
	// Returns ErrNotFound if the player has no entry.
	CountBefore(ctx context.Context, db bun.IDB, playerID string, mode leaderboarddomain.GameMode) (int, error)
}
