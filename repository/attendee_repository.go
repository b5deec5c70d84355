package repository

import (
	"context"
	"errors"
	"fmt"

	"luckydraw/database"
	"luckydraw/models"

	"github.com/jackc/pgx/v5"
)

// AttendeeRepository implements the AttendeeRepository interface
type AttendeeRepository struct {
	q queryable
}

// NewAttendeeRepository creates a new attendee repository
func NewAttendeeRepository(db *database.DB) *AttendeeRepository {
	return &AttendeeRepository{q: db.Pool}
}

func newAttendeeRepositoryWithTx(tx queryable) *AttendeeRepository {
	return &AttendeeRepository{q: tx}
}

const attendeeColumns = `
	id, event_id, full_name, department, ticket_number, normalized_key,
	phone_number, normalized_phone, has_won, excluded_from_raffle, checked_in_at
`

func scanAttendee(row pgx.Row) (*models.Attendee, error) {
	var a models.Attendee
	err := row.Scan(
		&a.ID,
		&a.EventID,
		&a.FullName,
		&a.Department,
		&a.TicketNumber,
		&a.NormalizedKey,
		&a.PhoneNumber,
		&a.NormalizedPhone,
		&a.HasWon,
		&a.ExcludedFromRaffle,
		&a.CheckedInAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttendeeRepository) queryAttendees(ctx context.Context, query string, args ...any) ([]*models.Attendee, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendees []*models.Attendee
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendee: %w", err)
		}
		attendees = append(attendees, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendees: %w", err)
	}

	return attendees, nil
}

// Create inserts a checked-in attendee
func (r *AttendeeRepository) Create(ctx context.Context, attendee *models.Attendee) error {
	query := `
		INSERT INTO attendees (
			event_id, full_name, department, ticket_number, normalized_key,
			phone_number, normalized_phone, checked_in_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, has_won, excluded_from_raffle
	`

	err := r.q.QueryRow(ctx, query,
		attendee.EventID,
		attendee.FullName,
		attendee.Department,
		attendee.TicketNumber,
		attendee.NormalizedKey,
		attendee.PhoneNumber,
		attendee.NormalizedPhone,
		attendee.CheckedInAt,
	).Scan(&attendee.ID, &attendee.HasWon, &attendee.ExcludedFromRaffle)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			switch constraint {
			case "attendees_event_normalized_phone_key":
				return models.ErrDuplicatePhone
			case "attendees_event_normalized_key_key":
				return models.ErrDuplicateAttendee
			case "attendees_event_ticket_key":
				return models.ErrDuplicateTicket
			}
		}
		return fmt.Errorf("failed to create attendee for event %d: %w", attendee.EventID, err)
	}

	return nil
}

// NextTicketNumber returns MAX(ticket_number)+1 for the event
func (r *AttendeeRepository) NextTicketNumber(ctx context.Context, eventID int64) (int, error) {
	query := `SELECT COALESCE(MAX(ticket_number), 0) + 1 FROM attendees WHERE event_id = $1`

	var next int
	if err := r.q.QueryRow(ctx, query, eventID).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to get next ticket number for event %d: %w", eventID, err)
	}

	return next, nil
}

// ExistsByPhone checks whether a normalized phone already checked in
func (r *AttendeeRepository) ExistsByPhone(ctx context.Context, eventID int64, normalizedPhone string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM attendees WHERE event_id = $1 AND normalized_phone = $2)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, eventID, normalizedPhone).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to look up phone for event %d: %w", eventID, err)
	}

	return exists, nil
}

// GetByID retrieves an attendee scoped to its event
func (r *AttendeeRepository) GetByID(ctx context.Context, eventID, attendeeID int64) (*models.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE id = $1 AND event_id = $2`

	attendee, err := scanAttendee(r.q.QueryRow(ctx, query, attendeeID, eventID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attendee %d: %w", attendeeID, err)
	}

	return attendee, nil
}

// ListByEvent returns attendees newest ticket first
func (r *AttendeeRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM attendees WHERE event_id = $1 ORDER BY ticket_number DESC`

	attendees, err := r.queryAttendees(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees for event %d: %w", eventID, err)
	}

	return attendees, nil
}

// ListEligible returns the draw candidate pool of an event
func (r *AttendeeRepository) ListEligible(ctx context.Context, eventID int64) ([]*models.Attendee, error) {
	query := `
		SELECT ` + attendeeColumns + `
		FROM attendees
		WHERE event_id = $1
		  AND has_won = FALSE
		  AND excluded_from_raffle = FALSE
		ORDER BY ticket_number
	`

	attendees, err := r.queryAttendees(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible attendees for event %d: %w", eventID, err)
	}

	return attendees, nil
}

// MarkWon flips has_won only for a still eligible attendee
func (r *AttendeeRepository) MarkWon(ctx context.Context, attendeeID int64) error {
	query := `
		UPDATE attendees
		SET has_won = TRUE, updated_at = NOW()
		WHERE id = $1 AND has_won = FALSE AND excluded_from_raffle = FALSE
	`

	result, err := r.q.Exec(ctx, query, attendeeID)
	if err != nil {
		return fmt.Errorf("failed to mark attendee %d as winner: %w", attendeeID, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrWinnerConflict
	}

	return nil
}

// SetExcluded updates the exclusion flag
func (r *AttendeeRepository) SetExcluded(ctx context.Context, attendeeID int64, excluded bool) error {
	query := `
		UPDATE attendees
		SET excluded_from_raffle = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, excluded, attendeeID)
	if err != nil {
		return fmt.Errorf("failed to update exclusion for attendee %d: %w", attendeeID, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrAttendeeNotFound
	}

	return nil
}

// ResetWinners clears has_won for an event
func (r *AttendeeRepository) ResetWinners(ctx context.Context, eventID int64) (int64, error) {
	query := `
		UPDATE attendees
		SET has_won = FALSE, updated_at = NOW()
		WHERE event_id = $1 AND has_won = TRUE
	`

	result, err := r.q.Exec(ctx, query, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to reset winners for event %d: %w", eventID, err)
	}

	return result.RowsAffected(), nil
}

// Delete removes an attendee
func (r *AttendeeRepository) Delete(ctx context.Context, attendeeID int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM attendees WHERE id = $1`, attendeeID)
	if err != nil {
		return fmt.Errorf("failed to delete attendee %d: %w", attendeeID, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrAttendeeNotFound
	}

	return nil
}
