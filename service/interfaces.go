package service

import (
	"context"
	"time"

	"luckydraw/events"
	"luckydraw/models"
)

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create inserts a new event and fills its ID and timestamps
	Create(ctx context.Context, event *models.Event) error

	// GetByID retrieves an event, nil when it does not exist
	GetByID(ctx context.Context, id int64) (*models.Event, error)

	// GetByCode retrieves an event by its lowercase code, nil when it does not exist
	GetByCode(ctx context.Context, code string) (*models.Event, error)

	// List returns every event with its counters, newest first
	List(ctx context.Context) ([]*models.EventWithStats, error)

	// GetStats returns the attendee, prize and winner counters of an event
	GetStats(ctx context.Context, id int64) (*models.EventStats, error)

	// Update persists name and status changes
	Update(ctx context.Context, event *models.Event) error

	// SetCurrentDrawPrize sets or clears the prize on deck for the next draw
	SetCurrentDrawPrize(ctx context.Context, eventID int64, prizeID *int64) error

	// Delete removes an event and everything that belongs to it
	Delete(ctx context.Context, id int64) error
}

// AttendeeRepository defines the interface for attendee data access
type AttendeeRepository interface {
	// Create inserts a checked-in attendee. Unique violations map to
	// models.ErrDuplicatePhone, models.ErrDuplicateAttendee or models.ErrDuplicateTicket.
	Create(ctx context.Context, attendee *models.Attendee) error

	// NextTicketNumber returns one past the highest ticket number of the event
	NextTicketNumber(ctx context.Context, eventID int64) (int, error)

	// ExistsByPhone reports whether a normalized phone already checked in to the event
	ExistsByPhone(ctx context.Context, eventID int64, normalizedPhone string) (bool, error)

	// GetByID retrieves an attendee of an event, nil when it does not exist
	GetByID(ctx context.Context, eventID, attendeeID int64) (*models.Attendee, error)

	// ListByEvent returns every attendee of an event, newest ticket first
	ListByEvent(ctx context.Context, eventID int64) ([]*models.Attendee, error)

	// ListEligible returns attendees that have not won and are not excluded, ordered by ticket
	ListEligible(ctx context.Context, eventID int64) ([]*models.Attendee, error)

	// MarkWon flips has_won from false to true. It returns models.ErrWinnerConflict
	// when the attendee already won or was excluded since the pool was read.
	MarkWon(ctx context.Context, attendeeID int64) error

	// SetExcluded updates the operator exclusion flag
	SetExcluded(ctx context.Context, attendeeID int64, excluded bool) error

	// ResetWinners clears has_won for every attendee of an event
	ResetWinners(ctx context.Context, eventID int64) (int64, error)

	// Delete removes an attendee
	Delete(ctx context.Context, attendeeID int64) error
}

// PrizeRepository defines the interface for prize inventory access
type PrizeRepository interface {
	// Create inserts a prize with remaining equal to total
	Create(ctx context.Context, prize *models.Prize) error

	// GetByID retrieves a prize, nil when it does not exist
	GetByID(ctx context.Context, id int64) (*models.Prize, error)

	// ListByEvent returns the prizes of an event in display order
	ListByEvent(ctx context.Context, eventID int64) ([]*models.Prize, error)

	// UpdateDetails persists name and display order changes
	UpdateDetails(ctx context.Context, prize *models.Prize) error

	// Resize sets a new total keeping the awarded count. It returns
	// models.ErrInvalidInput when the new total is below the awarded count.
	Resize(ctx context.Context, prizeID int64, newTotal int) (*models.Prize, error)

	// DecrementRemaining consumes one unit and returns the new remaining quantity.
	// It returns models.ErrPrizeExhausted when nothing remains.
	DecrementRemaining(ctx context.Context, prizeID int64) (int, error)

	// ResetQuantities sets remaining back to total for every prize of an event
	ResetQuantities(ctx context.Context, eventID int64) (int64, error)

	// Delete removes a prize
	Delete(ctx context.Context, prizeID int64) error
}

// DrawRunRepository defines the interface for draw attempt records
type DrawRunRepository interface {
	// Create records a draw attempt
	Create(ctx context.Context, run *models.DrawRun) error

	// ListByEvent returns the draw attempts of an event, newest first
	ListByEvent(ctx context.Context, eventID int64) ([]*models.DrawRun, error)
}

// WinnerRepository defines the interface for the winner ledger
type WinnerRepository interface {
	// Create appends a winner. It returns models.ErrWinnerConflict when the
	// attendee already has a winner row in the event.
	Create(ctx context.Context, winner *models.Winner) error

	// ListByEvent returns winners newest first, optionally filtered by prize
	ListByEvent(ctx context.Context, eventID int64, prizeID *int64) ([]*models.WinnerView, error)

	// CountByPrize returns how many winners reference a prize
	CountByPrize(ctx context.Context, prizeID int64) (int, error)

	// ExistsByAttendee reports whether an attendee has a winner row
	ExistsByAttendee(ctx context.Context, attendeeID int64) (bool, error)

	// DeleteByEvent wipes every winner of an event
	DeleteByEvent(ctx context.Context, eventID int64) (int64, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork manages a transaction and the repositories bound to it
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction. It is safe to call after Commit.
	Rollback() error

	EventRepository() EventRepository
	AttendeeRepository() AttendeeRepository
	PrizeRepository() PrizeRepository
	DrawRunRepository() DrawRunRepository
	WinnerRepository() WinnerRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates new units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// DrawMetrics receives draw engine measurements
type DrawMetrics interface {
	RecordDraw(ctx context.Context, outcome string, attempts int, duration time.Duration)
	RecordWinnerConflict(ctx context.Context)
}

// DrawService is the draw engine
type DrawService interface {
	// Draw selects and commits one winner for a prize
	Draw(ctx context.Context, req models.DrawRequest) (*models.DrawResult, error)
}

// LedgerService reads and resets the winner ledger
type LedgerService interface {
	// History lists winners newest first, optionally filtered by prize,
	// together with the prize currently on deck
	History(ctx context.Context, eventID int64, prizeID *int64) (*models.DrawHistory, error)

	// Reset wipes winners, clears has_won and restores every prize quantity of an event
	Reset(ctx context.Context, eventID int64) error
}

// PrizeService manages prize inventory
type PrizeService interface {
	CreatePrize(ctx context.Context, eventID int64, name string, quantity, displayOrder int) (*models.Prize, error)
	ListPrizes(ctx context.Context, eventID int64) ([]*models.Prize, error)
	UpdatePrize(ctx context.Context, eventID, prizeID int64, update models.PrizeUpdate) (*models.Prize, error)
	DeletePrize(ctx context.Context, eventID, prizeID int64) error
}

// EventService manages event lifecycle and the on-deck prize
type EventService interface {
	CreateEvent(ctx context.Context, name, code string) (*models.Event, error)
	GetEvent(ctx context.Context, eventID int64) (*models.EventWithStats, error)
	ListEvents(ctx context.Context) ([]*models.EventWithStats, error)
	UpdateEvent(ctx context.Context, eventID int64, name *string, status *models.EventStatus) (*models.Event, error)
	SelectPrize(ctx context.Context, eventID int64, prizeID *int64) error
	DeleteEvent(ctx context.Context, eventID int64) error
}

// CheckInService registers attendees and lets operators manage them
type CheckInService interface {
	CheckIn(ctx context.Context, req models.CheckInRequest) (*models.CheckInResult, error)
	ListAttendeesByCode(ctx context.Context, eventCode string) ([]*models.Attendee, error)
	ListAttendees(ctx context.Context, eventID int64) ([]*models.Attendee, error)
	SetExcluded(ctx context.Context, eventID, attendeeID int64, excluded bool) (*models.Attendee, error)
	DeleteAttendee(ctx context.Context, eventID, attendeeID int64) error
}
