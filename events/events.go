package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeDrawCompleted     EventType = "draw_completed"
	EventTypeRaffleReset       EventType = "raffle_reset"
	EventTypeAttendeeCheckedIn EventType = "attendee_checked_in"
	EventTypePrizeSelected     EventType = "prize_selected"
)

// AllEventTypes lists every event type emitted by the services
var AllEventTypes = []EventType{
	EventTypeDrawCompleted,
	EventTypeRaffleReset,
	EventTypeAttendeeCheckedIn,
	EventTypePrizeSelected,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// DrawCompletedEvent is emitted after a winner has been committed
type DrawCompletedEvent struct {
	EventID        int64     `json:"eventId"`
	EventCode      string    `json:"eventCode"`
	EventName      string    `json:"eventName"`
	PrizeID        int64     `json:"prizeId"`
	PrizeName      string    `json:"prizeName"`
	PrizeRemaining int       `json:"prizeRemaining"`
	WinnerID       int64     `json:"winnerId"`
	DrawRunID      int64     `json:"drawRunId"`
	AttendeeID     int64     `json:"attendeeId"`
	FullName       string    `json:"fullName"`
	Department     string    `json:"department"`
	TicketNumber   int       `json:"ticketNumber"`
	Initiator      string    `json:"initiator"`
	WonAt          time.Time `json:"wonAt"`
}

func (e DrawCompletedEvent) Type() EventType {
	return EventTypeDrawCompleted
}

// RaffleResetEvent is emitted after all winners of an event were wiped
type RaffleResetEvent struct {
	EventID        int64 `json:"eventId"`
	WinnersRemoved int64 `json:"winnersRemoved"`
}

func (e RaffleResetEvent) Type() EventType {
	return EventTypeRaffleReset
}

// AttendeeCheckedInEvent is emitted when an attendee receives a ticket
type AttendeeCheckedInEvent struct {
	EventID      int64  `json:"eventId"`
	AttendeeID   int64  `json:"attendeeId"`
	TicketNumber int    `json:"ticketNumber"`
	FullName     string `json:"fullName"`
	Department   string `json:"department"`
}

func (e AttendeeCheckedInEvent) Type() EventType {
	return EventTypeAttendeeCheckedIn
}

// PrizeSelectedEvent is emitted when the on-deck prize of an event changes
type PrizeSelectedEvent struct {
	EventID int64  `json:"eventId"`
	PrizeID *int64 `json:"prizeId"`
}

func (e PrizeSelectedEvent) Type() EventType {
	return EventTypePrizeSelected
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	inflight sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds a handler for every known event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, t := range AllEventTypes {
		b.Subscribe(t, handler)
	}
}

// Emit publishes an event to all registered handlers.
// Handlers run asynchronously and a panicking handler does not affect the others.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event")

	for i, handler := range handlers {
		b.inflight.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Wait blocks until every handler started by Emit has returned
func (b *Bus) Wait() {
	b.inflight.Wait()
}

// TransactionalBus holds events raised inside a unit of work until it commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Queued event on transactional bus")
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit.
// Handlers get a background context since the request context may already be done.
func (b *TransactionalBus) Flush() {
	if b.real == nil {
		b.pending = nil
		return
	}

	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}

	log.WithField("flushed", len(b.pending)).Debug("Flushed transactional bus")
	b.pending = nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

// Pending returns the number of queued events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}
