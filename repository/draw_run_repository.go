package repository

import (
	"context"
	"fmt"

	"luckydraw/database"
	"luckydraw/models"
)

// DrawRunRepository implements the DrawRunRepository interface
type DrawRunRepository struct {
	q queryable
}

// NewDrawRunRepository creates a new draw run repository
func NewDrawRunRepository(db *database.DB) *DrawRunRepository {
	return &DrawRunRepository{q: db.Pool}
}

func newDrawRunRepositoryWithTx(tx queryable) *DrawRunRepository {
	return &DrawRunRepository{q: tx}
}

// Create records a draw attempt
func (r *DrawRunRepository) Create(ctx context.Context, run *models.DrawRun) error {
	query := `
		INSERT INTO draw_runs (event_id, prize_id, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, run.EventID, run.PrizeID, run.CreatedBy).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create draw run for prize %d: %w", run.PrizeID, err)
	}

	return nil
}

// ListByEvent returns draw attempts newest first
func (r *DrawRunRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.DrawRun, error) {
	query := `
		SELECT id, event_id, prize_id, created_by, created_at
		FROM draw_runs
		WHERE event_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list draw runs for event %d: %w", eventID, err)
	}
	defer rows.Close()

	var runs []*models.DrawRun
	for rows.Next() {
		var run models.DrawRun
		if err := rows.Scan(&run.ID, &run.EventID, &run.PrizeID, &run.CreatedBy, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draw run: %w", err)
		}
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draw runs: %w", err)
	}

	return runs, nil
}
