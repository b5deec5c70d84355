package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"luckydraw/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Envelope wraps a domain event on the wire
type Envelope struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	OccurredAt    time.Time       `json:"occurredAt"`
	SourceService string          `json:"sourceService"`
	Payload       json.RawMessage `json:"payload"`
}

// PublishMetrics receives publish outcomes
type PublishMetrics interface {
	RecordNATSMessagePublished(eventType string)
	RecordNATSPublishError(eventType string)
}

// NATSEventPublisher forwards domain events from the in-process bus to NATS
type NATSEventPublisher struct {
	publisher     MessagePublisher
	subjectMapper *EventSubjectMapper
	source        string
	metrics       PublishMetrics
	now           func() time.Time
}

// NewNATSEventPublisher creates a new NATS event publisher. metrics may be nil.
func NewNATSEventPublisher(publisher MessagePublisher, subjectMapper *EventSubjectMapper, source string, metrics PublishMetrics) *NATSEventPublisher {
	return &NATSEventPublisher{
		publisher:     publisher,
		subjectMapper: subjectMapper,
		source:        source,
		metrics:       metrics,
		now:           time.Now,
	}
}

// Publish wraps the event in an envelope and publishes it on its subject
func (p *NATSEventPublisher) Publish(ctx context.Context, event events.Event) error {
	subject := p.subjectMapper.MapEventToSubject(event)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := &Envelope{
		ID:            uuid.New().String(),
		Type:          string(event.Type()),
		OccurredAt:    p.now().UTC(),
		SourceService: p.source,
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := p.publisher.Publish(ctx, subject, data); err != nil {
		if p.metrics != nil {
			p.metrics.RecordNATSPublishError(envelope.Type)
		}
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	if p.metrics != nil {
		p.metrics.RecordNATSMessagePublished(envelope.Type)
	}

	log.WithFields(log.Fields{
		"eventType": envelope.Type,
		"eventId":   envelope.ID,
		"subject":   subject,
	}).Debug("Successfully published event to NATS")

	return nil
}

// Attach subscribes the publisher to every event type on the bus.
// Publish failures are logged; the committed transaction is never affected.
func (p *NATSEventPublisher) Attach(bus *events.Bus) {
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		if err := p.Publish(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to forward event to NATS")
		}
	})
}
