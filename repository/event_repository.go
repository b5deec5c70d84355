package repository

import (
	"context"
	"errors"
	"fmt"

	"luckydraw/database"
	"luckydraw/models"

	"github.com/jackc/pgx/v5"
)

// EventRepository implements the EventRepository interface
type EventRepository struct {
	q queryable
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{q: db.Pool}
}

func newEventRepositoryWithTx(tx queryable) *EventRepository {
	return &EventRepository{q: tx}
}

const eventColumns = `id, code, name, status, current_draw_prize_id, created_at, updated_at`

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.ID,
		&e.Code,
		&e.Name,
		&e.Status,
		&e.CurrentDrawPrizeID,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (code, name, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query, event.Code, event.Name, event.Status).Scan(
		&event.ID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == "events_code_key" {
			return models.ErrDuplicateEventCode
		}
		return fmt.Errorf("failed to create event %q: %w", event.Code, err)
	}

	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}

	return event, nil
}

// GetByCode retrieves an event by code
func (r *EventRepository) GetByCode(ctx context.Context, code string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE code = $1`

	event, err := scanEvent(r.q.QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event by code %q: %w", code, err)
	}

	return event, nil
}

// List returns all events with their counters, newest first
func (r *EventRepository) List(ctx context.Context) ([]*models.EventWithStats, error) {
	query := `
		SELECT
			e.id, e.code, e.name, e.status, e.current_draw_prize_id, e.created_at, e.updated_at,
			(SELECT COUNT(*) FROM attendees a WHERE a.event_id = e.id),
			(SELECT COUNT(*) FROM prizes p WHERE p.event_id = e.id),
			(SELECT COUNT(*) FROM winners w WHERE w.event_id = e.id)
		FROM events e
		ORDER BY e.created_at DESC, e.id DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var result []*models.EventWithStats
	for rows.Next() {
		var e models.EventWithStats
		err := rows.Scan(
			&e.ID,
			&e.Code,
			&e.Name,
			&e.Status,
			&e.CurrentDrawPrizeID,
			&e.CreatedAt,
			&e.UpdatedAt,
			&e.Stats.Attendees,
			&e.Stats.Prizes,
			&e.Stats.Winners,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		result = append(result, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return result, nil
}

// GetStats returns the counters of one event
func (r *EventRepository) GetStats(ctx context.Context, id int64) (*models.EventStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM attendees WHERE event_id = $1),
			(SELECT COUNT(*) FROM prizes WHERE event_id = $1),
			(SELECT COUNT(*) FROM winners WHERE event_id = $1)
	`

	var stats models.EventStats
	if err := r.q.QueryRow(ctx, query, id).Scan(&stats.Attendees, &stats.Prizes, &stats.Winners); err != nil {
		return nil, fmt.Errorf("failed to get stats for event %d: %w", id, err)
	}

	return &stats, nil
}

// Update persists name and status
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET name = $1, status = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, event.Name, event.Status, event.ID).Scan(&event.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update event %d: %w", event.ID, err)
	}

	return nil
}

// SetCurrentDrawPrize sets or clears the on-deck prize
func (r *EventRepository) SetCurrentDrawPrize(ctx context.Context, eventID int64, prizeID *int64) error {
	query := `
		UPDATE events
		SET current_draw_prize_id = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, prizeID, eventID)
	if err != nil {
		return fmt.Errorf("failed to set current draw prize for event %d: %w", eventID, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrEventNotFound
	}

	return nil
}

// Delete removes an event. Winners are removed first since they reference
// attendees and prizes without cascading.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM winners WHERE event_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete winners of event %d: %w", id, err)
	}

	result, err := r.q.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrEventNotFound
	}

	return nil
}
