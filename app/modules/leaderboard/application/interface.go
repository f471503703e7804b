package leaderboardservice

import (
	"context"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	leaderboardevents "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/events"
)

// Service is the leaderboard application surface consumed by HTTP handlers.
type Service interface {
	// SubmitScore runs validation, replay protection, bonus calculation, the
	// score upsert and the canonical cache rewarm, in that order.
	SubmitScore(ctx context.Context, req SubmitScoreRequest) (*SubmitScoreResult, error)

	// GetTopPlayers returns up to n entries with ranks 1..n. Served from the
	// snapshot cache when possible.
	GetTopPlayers(ctx context.Context, mode leaderboarddomain.GameMode, n int) ([]leaderboarddomain.RankedEntry, error)

	// GetMyRank returns the caller's entry and live rank, or ErrNotFound.
	GetMyRank(ctx context.Context, playerID string, mode leaderboarddomain.GameMode) (*leaderboarddomain.RankedEntry, error)

	// GetAroundMe returns ranks [rank-k, rank+k] around the caller, clipped at the board edges.
	GetAroundMe(ctx context.Context, playerID string, mode leaderboarddomain.GameMode, k int) ([]leaderboarddomain.RankedEntry, error)

	// ExportTopPlayersXLSX renders the top-n board as a spreadsheet.
	ExportTopPlayersXLSX(ctx context.Context, mode leaderboarddomain.GameMode, n int) ([]byte, error)

	// RenderTopPlayersChart renders the top-n board as a PNG bar chart.
	RenderTopPlayersChart(ctx context.Context, mode leaderboarddomain.GameMode, n int) ([]byte, error)
}

// CacheStore holds serialized top-N snapshots.
type CacheStore interface {
	// Get returns an error on a miss. The service treats every Get error as a miss.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetIfAbsent writes key only when it does not exist.
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore records submission keys.
type IdempotencyStore interface {
	// SetIfAbsent atomically creates key and reports whether it was created.
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// EventPublisher announces acknowledged submissions.
type EventPublisher interface {
	PublishScoreSubmitted(ctx context.Context, payload leaderboardevents.ScoreSubmittedPayload) error
}

// SubmitScoreRequest is an authenticated score submission.
type SubmitScoreRequest struct {
	PlayerID       string
	GameMode       leaderboarddomain.GameMode
	Score          int64
	BonusTags      []string
	PlayerLevel    *int
	TrophyCount    *int
	IdempotencyKey string
	Timestamp      *time.Time
}

// SubmitScoreResult acknowledges a stored submission.
type SubmitScoreResult struct {
	FinalScore int64                      `json:"finalScore"`
	GameMode   leaderboarddomain.GameMode `json:"gameMode"`
}
