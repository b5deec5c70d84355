package models

import (
	"time"
)

// Attendee is a checked-in participant of an event
type Attendee struct {
	ID                 int64     `db:"id" json:"id"`
	EventID            int64     `db:"event_id" json:"eventId"`
	FullName           string    `db:"full_name" json:"fullName"`
	Department         string    `db:"department" json:"department"`
	TicketNumber       int       `db:"ticket_number" json:"ticketNumber"`
	NormalizedKey      string    `db:"normalized_key" json:"-"`
	PhoneNumber        string    `db:"phone_number" json:"phoneNumber"`
	NormalizedPhone    string    `db:"normalized_phone" json:"-"`
	HasWon             bool      `db:"has_won" json:"hasWon"`
	ExcludedFromRaffle bool      `db:"excluded_from_raffle" json:"excludedFromRaffle"`
	CheckedInAt        time.Time `db:"checked_in_at" json:"checkedInAt"`
}

// IsEligible reports whether the attendee may be selected by a draw
func (a *Attendee) IsEligible() bool {
	return !a.HasWon && !a.ExcludedFromRaffle
}

// Snapshot captures the attendee fields frozen into a winner record
func (a *Attendee) Snapshot() WinnerSnapshot {
	return WinnerSnapshot{
		FullName:     a.FullName,
		Department:   a.Department,
		TicketNumber: a.TicketNumber,
	}
}

// CheckInRequest is the raw input of a check-in
type CheckInRequest struct {
	EventCode   string `json:"eventCode"`
	FullName    string `json:"fullName"`
	Department  string `json:"department"`
	PhoneNumber string `json:"phoneNumber"`
}

// CheckInResult is returned to the attendee after a successful check-in
type CheckInResult struct {
	AttendeeID   int64     `json:"attendeeId"`
	TicketNumber int       `json:"ticketNumber"`
	FullName     string    `json:"fullName"`
	Department   string    `json:"department"`
	PhoneNumber  string    `json:"phoneNumber"`
	CheckedInAt  time.Time `json:"checkedInAt"`
}
