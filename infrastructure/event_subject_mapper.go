package infrastructure

import (
	"luckydraw/events"
)

// EventSubjectMapper maps domain events to NATS subjects under a common prefix
type EventSubjectMapper struct {
	prefix string
}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper(prefix string) *EventSubjectMapper {
	return &EventSubjectMapper{prefix: prefix}
}

// MapEventToSubject returns <prefix>.<event type>
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	return m.subject(event.Type())
}

// MapSubjectToEventType converts a subject back to the event type, empty when unknown
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for _, t := range events.AllEventTypes {
		if m.subject(t) == subject {
			return t
		}
	}
	return ""
}

// GetAllSubjects returns the subjects of every known event type
func (m *EventSubjectMapper) GetAllSubjects() []string {
	subjects := make([]string, 0, len(events.AllEventTypes))
	for _, t := range events.AllEventTypes {
		subjects = append(subjects, m.subject(t))
	}
	return subjects
}

func (m *EventSubjectMapper) subject(t events.EventType) string {
	if m.prefix == "" {
		return string(t)
	}
	return m.prefix + "." + string(t)
}
