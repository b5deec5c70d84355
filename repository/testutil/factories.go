package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"luckydraw/database"
	"luckydraw/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

// CreateTestEvent creates an event value with default fields
func CreateTestEvent(code string, status models.EventStatus) *models.Event {
	return &models.Event{
		Code:   code,
		Name:   "Test Event " + code,
		Status: status,
	}
}

// CreateTestAttendee creates an attendee value with unique keys derived from its ticket
func CreateTestAttendee(eventID int64, ticket int) *models.Attendee {
	return &models.Attendee{
		EventID:         eventID,
		FullName:        fmt.Sprintf("Attendee %d", ticket),
		Department:      "Engineering",
		TicketNumber:    ticket,
		NormalizedKey:   fmt.Sprintf("attendee-%d|engineering", ticket),
		PhoneNumber:     fmt.Sprintf("09%08d", ticket),
		NormalizedPhone: fmt.Sprintf("849%08d", ticket),
		CheckedInAt:     time.Now().UTC(),
	}
}

// CreateTestPrize creates a prize value with the given quantity
func CreateTestPrize(eventID int64, name string, quantity int) *models.Prize {
	return &models.Prize{
		EventID:           eventID,
		Name:              name,
		QuantityTotal:     quantity,
		QuantityRemaining: quantity,
	}
}

// Fixture is a persisted event with attendees and one prize
type Fixture struct {
	Event     *models.Event
	Prize     *models.Prize
	Attendees []*models.Attendee
}

// SeedFixture inserts an event with the given number of attendees and a prize of the given quantity
func SeedFixture(t *testing.T, db *database.DB, code string, status models.EventStatus, attendees, quantity int) *Fixture {
	t.Helper()
	ctx := context.Background()

	event := CreateTestEvent(code, status)
	fixture := &Fixture{Event: event}

	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO events (code, name, status) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`,
			event.Code, event.Name, event.Status,
		).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
		if err != nil {
			return err
		}

		prize := CreateTestPrize(event.ID, "Grand Prize", quantity)
		err = tx.QueryRow(ctx,
			`INSERT INTO prizes (event_id, name, quantity_total, quantity_remaining) VALUES ($1, $2, $3, $3) RETURNING id, created_at`,
			prize.EventID, prize.Name, prize.QuantityTotal,
		).Scan(&prize.ID, &prize.CreatedAt)
		if err != nil {
			return err
		}
		fixture.Prize = prize

		for i := 1; i <= attendees; i++ {
			a := CreateTestAttendee(event.ID, i)
			err := tx.QueryRow(ctx,
				`INSERT INTO attendees (event_id, full_name, department, ticket_number, normalized_key, phone_number, normalized_phone, checked_in_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
				a.EventID, a.FullName, a.Department, a.TicketNumber, a.NormalizedKey, a.PhoneNumber, a.NormalizedPhone, a.CheckedInAt,
			).Scan(&a.ID)
			if err != nil {
				return err
			}
			fixture.Attendees = append(fixture.Attendees, a)
		}
		return nil
	})
	require.NoError(t, err)

	return fixture
}
