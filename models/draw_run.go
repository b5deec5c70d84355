package models

import (
	"time"
)

// DrawRun marks that a draw was invoked, whatever its outcome
type DrawRun struct {
	ID        int64     `db:"id" json:"id"`
	EventID   int64     `db:"event_id" json:"eventId"`
	PrizeID   int64     `db:"prize_id" json:"prizeId"`
	CreatedBy string    `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
