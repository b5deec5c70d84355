package models

import (
	"time"
)

// Prize is a reward with a finite quantity for one event
type Prize struct {
	ID                int64     `db:"id" json:"id"`
	EventID           int64     `db:"event_id" json:"eventId"`
	Name              string    `db:"name" json:"name"`
	QuantityTotal     int       `db:"quantity_total" json:"quantityTotal"`
	QuantityRemaining int       `db:"quantity_remaining" json:"quantityRemaining"`
	DisplayOrder      int       `db:"display_order" json:"order"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
}

// Awarded returns how many units have already been given to winners
func (p *Prize) Awarded() int {
	return p.QuantityTotal - p.QuantityRemaining
}

// IsExhausted reports whether no units remain
func (p *Prize) IsExhausted() bool {
	return p.QuantityRemaining <= 0
}

// PrizeUpdate carries the optional fields of an admin prize edit
type PrizeUpdate struct {
	Name         *string `json:"name"`
	Quantity     *int    `json:"quantity"`
	DisplayOrder *int    `json:"order"`
}
