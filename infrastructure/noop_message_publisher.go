package infrastructure

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// NoopMessagePublisher drops every message.
// Used when no NATS server is configured and for admin commands.
type NoopMessagePublisher struct{}

// NewNoopMessagePublisher creates a new no-op message publisher
func NewNoopMessagePublisher() *NoopMessagePublisher {
	return &NoopMessagePublisher{}
}

// Publish discards the message
func (n *NoopMessagePublisher) Publish(ctx context.Context, subject string, data []byte) error {
	log.WithField("subject", subject).Trace("Dropped message, no message bus configured")
	return nil
}
