package leaderboarddb

import (
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	"github.com/uptrace/bun"
)

// LeaderboardEntry is one row per (player_id, game_mode).
type LeaderboardEntry struct {
	bun.BaseModel `bun:"table:leaderboard_entries,alias:le"`

	PlayerID            string    `bun:"player_id,pk,type:uuid"`
	GameMode            int16     `bun:"game_mode,pk,type:smallint"`
	Score               int64     `bun:"score,notnull"`
	PlayerLevel         *int      `bun:"player_level"`
	TrophyCount         *int      `bun:"trophy_count"`
	RegistrationDateUTC time.Time `bun:"registration_date_utc,notnull,default:current_timestamp"`
	UpdateDateUTC       time.Time `bun:"update_date_utc,notnull,default:current_timestamp"`
}

// ToDomain converts the row into the domain read model.
func (e *LeaderboardEntry) ToDomain() leaderboarddomain.Entry {
	return leaderboarddomain.Entry{
		PlayerID:            e.PlayerID,
		GameMode:            leaderboarddomain.GameMode(e.GameMode),
		Score:               e.Score,
		PlayerLevel:         e.PlayerLevel,
		TrophyCount:         e.TrophyCount,
		RegistrationDateUTC: e.RegistrationDateUTC.UTC(),
		UpdateDateUTC:       e.UpdateDateUTC.UTC(),
	}
}

// ScoreUpsert carries the mutable fields of a submission. Nil level or
// trophies leave the stored values untouched.
type ScoreUpsert struct {
	PlayerID    string
	GameMode    leaderboarddomain.GameMode
	Score       int64
	PlayerLevel *int
	TrophyCount *int
	At          time.Time
}
