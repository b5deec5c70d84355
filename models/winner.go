package models

import (
	"time"
)

// WinnerSnapshot is the attendee data frozen at win time
type WinnerSnapshot struct {
	FullName     string `json:"fullName"`
	Department   string `json:"department"`
	TicketNumber int    `json:"ticketNumber"`
}

// Winner is an immutable ledger entry of one successful draw
type Winner struct {
	ID         int64          `db:"id" json:"id"`
	EventID    int64          `db:"event_id" json:"eventId"`
	PrizeID    int64          `db:"prize_id" json:"prizeId"`
	DrawRunID  int64          `db:"draw_run_id" json:"drawRunId"`
	AttendeeID int64          `db:"attendee_id" json:"attendeeId"`
	Snapshot   WinnerSnapshot `json:"snapshot"`
	WonAt      time.Time      `db:"won_at" json:"wonAt"`
}

// WinnerView is a winner augmented with the prize's display name
type WinnerView struct {
	Winner
	PrizeName string `json:"prizeName"`
}
