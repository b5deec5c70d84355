package models

import (
	"regexp"
	"time"
)

// EventStatus represents the lifecycle state of an event
type EventStatus string

const (
	EventStatusDraft EventStatus = "draft"
	EventStatusLive  EventStatus = "live"
	EventStatusEnded EventStatus = "ended"
)

var eventCodePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Event is a check-in and raffle session
type Event struct {
	ID                 int64       `db:"id" json:"id"`
	Code               string      `db:"code" json:"code"`
	Name               string      `db:"name" json:"name"`
	Status             EventStatus `db:"status" json:"status"`
	CurrentDrawPrizeID *int64      `db:"current_draw_prize_id" json:"currentDrawPrizeId"`
	CreatedAt          time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time   `db:"updated_at" json:"updatedAt"`
}

// EventStats holds the per-event counters shown on admin pages
type EventStats struct {
	Attendees int `json:"attendees"`
	Prizes    int `json:"prizes"`
	Winners   int `json:"winners"`
}

// EventWithStats is an event along with its counters
type EventWithStats struct {
	Event
	Stats EventStats `json:"stats"`
}

// IsLive reports whether draws and check-ins are currently permitted
func (e *Event) IsLive() bool {
	return e.Status == EventStatusLive
}

// IsValid checks if the status is one of the known lifecycle states
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusLive, EventStatusEnded:
		return true
	}
	return false
}

// IsValidEventCode checks that a code only contains lowercase letters, digits and hyphens
func IsValidEventCode(code string) bool {
	return eventCodePattern.MatchString(code)
}
