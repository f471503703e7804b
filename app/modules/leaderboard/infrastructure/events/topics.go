package leaderboardevents

import "time"

// ScoreSubmittedTopic is published after a submission is acknowledged.
const ScoreSubmittedTopic = "leaderboard.score.submitted.v1"

// ScoreSubmittedPayload describes an acknowledged score write.
type ScoreSubmittedPayload struct {
	PlayerID    string    `json:"player_id"`
	GameMode    string    `json:"game_mode"`
	BaseScore   int64     `json:"base_score"`
	FinalScore  int64     `json:"final_score"`
	BonusTags   []string  `json:"bonus_tags,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}
