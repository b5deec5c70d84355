package repository

import (
	"context"
	"fmt"

	"luckydraw/database"
	"luckydraw/models"
)

// winnerUniqueConstraint guards against an attendee winning twice in one event
const winnerUniqueConstraint = "winners_event_attendee_key"

// WinnerRepository implements the WinnerRepository interface
type WinnerRepository struct {
	q queryable
}

// NewWinnerRepository creates a new winner repository
func NewWinnerRepository(db *database.DB) *WinnerRepository {
	return &WinnerRepository{q: db.Pool}
}

func newWinnerRepositoryWithTx(tx queryable) *WinnerRepository {
	return &WinnerRepository{q: tx}
}

// Create appends a winner. The insert itself is the commit gate of a draw:
// a unique violation means a concurrent draw already claimed the attendee.
func (r *WinnerRepository) Create(ctx context.Context, winner *models.Winner) error {
	query := `
		INSERT INTO winners (
			event_id, prize_id, draw_run_id, attendee_id,
			snapshot_full_name, snapshot_department, snapshot_ticket_number, won_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		winner.EventID,
		winner.PrizeID,
		winner.DrawRunID,
		winner.AttendeeID,
		winner.Snapshot.FullName,
		winner.Snapshot.Department,
		winner.Snapshot.TicketNumber,
		winner.WonAt,
	).Scan(&winner.ID)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == winnerUniqueConstraint {
			return models.ErrWinnerConflict
		}
		return fmt.Errorf("failed to create winner for attendee %d: %w", winner.AttendeeID, err)
	}

	return nil
}

// ListByEvent returns winners newest first with their prize name
func (r *WinnerRepository) ListByEvent(ctx context.Context, eventID int64, prizeID *int64) ([]*models.WinnerView, error) {
	query := `
		SELECT
			w.id, w.event_id, w.prize_id, w.draw_run_id, w.attendee_id,
			w.snapshot_full_name, w.snapshot_department, w.snapshot_ticket_number,
			w.won_at, p.name
		FROM winners w
		JOIN prizes p ON p.id = w.prize_id
		WHERE w.event_id = $1
		  AND ($2::BIGINT IS NULL OR w.prize_id = $2)
		ORDER BY w.won_at DESC, w.id DESC
	`

	rows, err := r.q.Query(ctx, query, eventID, prizeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners for event %d: %w", eventID, err)
	}
	defer rows.Close()

	var winners []*models.WinnerView
	for rows.Next() {
		var w models.WinnerView
		err := rows.Scan(
			&w.ID,
			&w.EventID,
			&w.PrizeID,
			&w.DrawRunID,
			&w.AttendeeID,
			&w.Snapshot.FullName,
			&w.Snapshot.Department,
			&w.Snapshot.TicketNumber,
			&w.WonAt,
			&w.PrizeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan winner: %w", err)
		}
		winners = append(winners, &w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating winners: %w", err)
	}

	return winners, nil
}

// CountByPrize returns the number of winners of a prize
func (r *WinnerRepository) CountByPrize(ctx context.Context, prizeID int64) (int, error) {
	var count int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM winners WHERE prize_id = $1`, prizeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count winners for prize %d: %w", prizeID, err)
	}
	return count, nil
}

// ExistsByAttendee reports whether an attendee has won
func (r *WinnerRepository) ExistsByAttendee(ctx context.Context, attendeeID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM winners WHERE attendee_id = $1)`
	if err := r.q.QueryRow(ctx, query, attendeeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to look up winner for attendee %d: %w", attendeeID, err)
	}
	return exists, nil
}

// DeleteByEvent wipes the ledger of an event
func (r *WinnerRepository) DeleteByEvent(ctx context.Context, eventID int64) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM winners WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete winners for event %d: %w", eventID, err)
	}
	return result.RowsAffected(), nil
}
