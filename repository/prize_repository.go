package repository

import (
	"context"
	"errors"
	"fmt"

	"luckydraw/database"
	"luckydraw/models"

	"github.com/jackc/pgx/v5"
)

// PrizeRepository implements the PrizeRepository interface
type PrizeRepository struct {
	q queryable
}

// NewPrizeRepository creates a new prize repository
func NewPrizeRepository(db *database.DB) *PrizeRepository {
	return &PrizeRepository{q: db.Pool}
}

func newPrizeRepositoryWithTx(tx queryable) *PrizeRepository {
	return &PrizeRepository{q: tx}
}

const prizeColumns = `id, event_id, name, quantity_total, quantity_remaining, display_order, created_at`

func scanPrize(row pgx.Row) (*models.Prize, error) {
	var p models.Prize
	err := row.Scan(
		&p.ID,
		&p.EventID,
		&p.Name,
		&p.QuantityTotal,
		&p.QuantityRemaining,
		&p.DisplayOrder,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a prize with remaining equal to total
func (r *PrizeRepository) Create(ctx context.Context, prize *models.Prize) error {
	query := `
		INSERT INTO prizes (event_id, name, quantity_total, quantity_remaining, display_order)
		VALUES ($1, $2, $3, $3, $4)
		RETURNING id, quantity_remaining, created_at
	`

	err := r.q.QueryRow(ctx, query, prize.EventID, prize.Name, prize.QuantityTotal, prize.DisplayOrder).Scan(
		&prize.ID,
		&prize.QuantityRemaining,
		&prize.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prize %q: %w", prize.Name, err)
	}

	return nil
}

// GetByID retrieves a prize by ID
func (r *PrizeRepository) GetByID(ctx context.Context, id int64) (*models.Prize, error) {
	query := `SELECT ` + prizeColumns + ` FROM prizes WHERE id = $1`

	prize, err := scanPrize(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prize %d: %w", id, err)
	}

	return prize, nil
}

// ListByEvent returns prizes by display order then creation
func (r *PrizeRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.Prize, error) {
	query := `
		SELECT ` + prizeColumns + `
		FROM prizes
		WHERE event_id = $1
		ORDER BY display_order, created_at, id
	`

	rows, err := r.q.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prizes for event %d: %w", eventID, err)
	}
	defer rows.Close()

	var prizes []*models.Prize
	for rows.Next() {
		p, err := scanPrize(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prize: %w", err)
		}
		prizes = append(prizes, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prizes: %w", err)
	}

	return prizes, nil
}

// UpdateDetails persists name and display order
func (r *PrizeRepository) UpdateDetails(ctx context.Context, prize *models.Prize) error {
	query := `
		UPDATE prizes
		SET name = $1, display_order = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.q.Exec(ctx, query, prize.Name, prize.DisplayOrder, prize.ID)
	if err != nil {
		return fmt.Errorf("failed to update prize %d: %w", prize.ID, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrPrizeNotFound
	}

	return nil
}

// Resize changes the total while keeping the awarded count. The guard lives in
// the WHERE clause so a concurrent draw cannot slip between check and write.
func (r *PrizeRepository) Resize(ctx context.Context, prizeID int64, newTotal int) (*models.Prize, error) {
	query := `
		UPDATE prizes
		SET quantity_total = $2,
		    quantity_remaining = $2 - (quantity_total - quantity_remaining),
		    updated_at = NOW()
		WHERE id = $1 AND $2 >= quantity_total - quantity_remaining
		RETURNING ` + prizeColumns

	prize, err := scanPrize(r.q.QueryRow(ctx, query, prizeID, newTotal))
	if err == nil {
		return prize, nil
	}
	if _, ok := checkViolation(err); ok {
		return nil, models.NewError(models.ErrorKindInvalidInput, "prize quantity must be at least 1")
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to resize prize %d: %w", prizeID, err)
	}

	current, err := r.GetByID(ctx, prizeID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, models.ErrPrizeNotFound
	}

	awarded := current.Awarded()
	return nil, models.NewLocalizedError(
		models.ErrorKindInvalidInput,
		"PrizeQuantityBelowAwarded",
		map[string]interface{}{"Awarded": awarded},
		"quantity cannot be less than %d already awarded", awarded,
	)
}

// DecrementRemaining consumes one unit only while some remain
func (r *PrizeRepository) DecrementRemaining(ctx context.Context, prizeID int64) (int, error) {
	query := `
		UPDATE prizes
		SET quantity_remaining = quantity_remaining - 1, updated_at = NOW()
		WHERE id = $1 AND quantity_remaining > 0
		RETURNING quantity_remaining
	`

	var remaining int
	err := r.q.QueryRow(ctx, query, prizeID).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, models.ErrPrizeExhausted
	}
	if err != nil {
		return 0, fmt.Errorf("failed to decrement prize %d: %w", prizeID, err)
	}

	return remaining, nil
}

// ResetQuantities restores remaining to total for an event
func (r *PrizeRepository) ResetQuantities(ctx context.Context, eventID int64) (int64, error) {
	query := `
		UPDATE prizes
		SET quantity_remaining = quantity_total, updated_at = NOW()
		WHERE event_id = $1
	`

	result, err := r.q.Exec(ctx, query, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to reset prize quantities for event %d: %w", eventID, err)
	}

	return result.RowsAffected(), nil
}

// Delete removes a prize
func (r *PrizeRepository) Delete(ctx context.Context, prizeID int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM prizes WHERE id = $1`, prizeID)
	if err != nil {
		return fmt.Errorf("failed to delete prize %d: %w", prizeID, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrPrizeNotFound
	}

	return nil
}
