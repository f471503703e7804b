package eventbus

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

// NewPublisher creates a Watermill publisher on core NATS. Events are
// notifications for downstream consumers, so JetStream persistence is not used.
func NewPublisher(natsURL string, logger *slog.Logger) (message.Publisher, error) {
	watermillLogger := watermill.NewSlogLogger(logger)

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:       natsURL,
			Marshaler: &nats.NATSMarshaler{},
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
				nc.Name("leaderboard-api"),
			},
			JetStream: nats.JetStreamConfig{Disabled: true},
		},
		watermillLogger,
	)
	if err != nil {
		logger.Error("Failed to create Watermill publisher", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}
	return publisher, nil
}

// NopPublisher drops every message. Used when no NATS URL is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(string, ...*message.Message) error { return nil }
func (NopPublisher) Close() error { return nil }
