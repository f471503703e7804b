package leaderboardevents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Publisher emits leaderboard domain events.
type Publisher struct {
	publisher message.Publisher
}

func NewPublisher(publisher message.Publisher) *Publisher {
	return &Publisher{publisher: publisher}
}

// PublishScoreSubmitted marshals the payload and publishes it on ScoreSubmittedTopic.
func (p *Publisher) PublishScoreSubmitted(ctx context.Context, payload ScoreSubmittedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("leaderboardevents.PublishScoreSubmitted: marshal: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.SetContext(ctx)
	msg.Metadata.Set("topic", ScoreSubmittedTopic)
	msg.Metadata.Set("player_id", payload.PlayerID)
	msg.Metadata.Set("game_mode", payload.GameMode)

	if err := p.publisher.Publish(ScoreSubmittedTopic, msg); err != nil {
		return fmt.Errorf("leaderboardevents.PublishScoreSubmitted: %w", err)
	}
	return nil
}
