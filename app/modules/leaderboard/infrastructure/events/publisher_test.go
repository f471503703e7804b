package leaderboardevents

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishScoreSubmitted(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, ScoreSubmittedTopic)
	require.NoError(t, err)

	submittedAt := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	payload := ScoreSubmittedPayload{
		PlayerID:    "6f1c1f8e-9a57-4a53-9c1f-0d9b9f7f1a01",
		GameMode:    "Classic",
		BaseScore:   1500,
		FinalScore:  1575,
		BonusTags:   []string{"weekend_bonus"},
		SubmittedAt: submittedAt,
	}

	require.NoError(t, NewPublisher(pubSub).PublishScoreSubmitted(ctx, payload))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, payload.PlayerID, msg.Metadata.Get("player_id"))
		assert.Equal(t, "Classic", msg.Metadata.Get("game_mode"))

		var got ScoreSubmittedPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, payload, got)
	case <-ctx.Done():
		t.Fatal("timed out waiting for ScoreSubmitted message")
	}
}
