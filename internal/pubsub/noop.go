package pubsub

import (
	"context"

	"github.com/charmbracelet/log"
)

// noop is used when no Google Cloud project is configured. Messages are
// encoded and dropped.
type noop struct{}

// NewNoop returns a client that publishes nothing.
func NewNoop() PubSubClient {
	return noop{}
}

func (noop) SendMessage(ctx context.Context, topic EventType, data any) error {
	if _, err := encode(topic, data); err != nil {
		return err
	}
	log.Debug("Pubsub disabled, dropping message", "topic", topic)
	return nil
}

func (noop) Close() {}
