package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"luckydraw/events"
	"luckydraw/models"

	log "github.com/sirupsen/logrus"
)

const (
	minFullNameLength = 2
	phoneDigitCount   = 10
	// ticketAttempts bounds retries when a concurrent check-in takes the same ticket number
	ticketAttempts = 3
)

// checkInService implements the CheckInService interface
type checkInService struct {
	uowFactory UnitOfWorkFactory
}

// NewCheckInService creates a new check-in service
func NewCheckInService(uowFactory UnitOfWorkFactory) CheckInService {
	return &checkInService{
		uowFactory: uowFactory,
	}
}

// validateCheckIn checks the raw request fields in the order users fill them in
func validateCheckIn(req models.CheckInRequest) error {
	if strings.TrimSpace(req.EventCode) == "" {
		return invalidInput("EventCodeRequired", nil, "event code is required")
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.FullName)) < minFullNameLength {
		return invalidInput("FullNameTooShort", map[string]interface{}{"Min": minFullNameLength},
			"full name must be at least %d characters", minFullNameLength)
	}
	if strings.TrimSpace(req.Department) == "" {
		return invalidInput("DepartmentRequired", nil, "department is required")
	}
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return invalidInput("PhoneRequired", nil, "phone number is required")
	}
	if len(phoneDigits(req.PhoneNumber)) != phoneDigitCount {
		return invalidInput("PhoneMustHaveTenDigits", map[string]interface{}{"Digits": phoneDigitCount},
			"phone number must have exactly %d digits", phoneDigitCount)
	}
	return nil
}

// CheckIn registers an attendee of a live event and assigns the next ticket number
func (s *checkInService) CheckIn(ctx context.Context, req models.CheckInRequest) (*models.CheckInResult, error) {
	if err := validateCheckIn(req); err != nil {
		return nil, err
	}

	fullName := strings.TrimSpace(req.FullName)
	department := strings.TrimSpace(req.Department)
	phone := strings.TrimSpace(req.PhoneNumber)

	attendee := &models.Attendee{
		FullName:        fullName,
		Department:      department,
		NormalizedKey:   NormalizedKey(fullName, department),
		PhoneNumber:     phone,
		NormalizedPhone: NormalizePhone(phone),
	}
	code := strings.ToLower(strings.TrimSpace(req.EventCode))

	var err error
	for attempt := 1; attempt <= ticketAttempts; attempt++ {
		err = s.register(ctx, code, attendee)
		if err == nil {
			break
		}
		if !errors.Is(err, models.ErrDuplicateTicket) {
			return nil, err
		}
		log.WithFields(log.Fields{
			"eventCode": code,
			"attempt":   attempt,
		}).Warn("Ticket number taken by a concurrent check-in, retrying")
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"eventID":      attendee.EventID,
		"attendeeID":   attendee.ID,
		"ticketNumber": attendee.TicketNumber,
	}).Info("Attendee checked in")

	return &models.CheckInResult{
		AttendeeID:   attendee.ID,
		TicketNumber: attendee.TicketNumber,
		FullName:     attendee.FullName,
		Department:   attendee.Department,
		PhoneNumber:  attendee.PhoneNumber,
		CheckedInAt:  attendee.CheckedInAt,
	}, nil
}

// register runs one check-in transaction. The ticket number is read and
// inserted in the same transaction; the unique index settles collisions.
func (s *checkInService) register(ctx context.Context, code string, attendee *models.Attendee) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	event, err := uow.EventRepository().GetByCode(ctx, code)
	if err != nil {
		return storageError("failed to load event", err)
	}
	if event == nil {
		return models.ErrEventNotFound
	}
	if !event.IsLive() {
		return models.NewLocalizedError(models.ErrorKindEventNotLive, "CheckInClosed", nil,
			"event %s is not open for check-in", event.Code)
	}

	exists, err := uow.AttendeeRepository().ExistsByPhone(ctx, event.ID, attendee.NormalizedPhone)
	if err != nil {
		return storageError("failed to check phone number", err)
	}
	if exists {
		return models.ErrDuplicatePhone
	}

	ticket, err := uow.AttendeeRepository().NextTicketNumber(ctx, event.ID)
	if err != nil {
		return storageError("failed to allocate ticket number", err)
	}

	attendee.EventID = event.ID
	attendee.TicketNumber = ticket
	if err := uow.AttendeeRepository().Create(ctx, attendee); err != nil {
		return storageError("failed to create attendee", err)
	}

	uow.EventBus().Publish(events.AttendeeCheckedInEvent{
		EventID:      event.ID,
		AttendeeID:   attendee.ID,
		TicketNumber: attendee.TicketNumber,
		FullName:     attendee.FullName,
		Department:   attendee.Department,
	})

	if err := uow.Commit(); err != nil {
		return models.NewStorageError("failed to commit check-in", err)
	}

	return nil
}

// ListAttendeesByCode lists the attendees of an event found by its public code
func (s *checkInService) ListAttendeesByCode(ctx context.Context, eventCode string) ([]*models.Attendee, error) {
	code := strings.ToLower(strings.TrimSpace(eventCode))
	if code == "" {
		return nil, invalidInput("EventCodeRequired", nil, "event code is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	event, err := uow.EventRepository().GetByCode(ctx, code)
	if err != nil {
		return nil, storageError("failed to load event", err)
	}
	if event == nil {
		return nil, models.ErrEventNotFound
	}

	return listAttendees(ctx, uow, event.ID)
}

func (s *checkInService) ListAttendees(ctx context.Context, eventID int64) ([]*models.Attendee, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	if _, err := requireEvent(ctx, uow, eventID); err != nil {
		return nil, err
	}

	return listAttendees(ctx, uow, eventID)
}

func listAttendees(ctx context.Context, uow UnitOfWork, eventID int64) ([]*models.Attendee, error) {
	attendees, err := uow.AttendeeRepository().ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storageError("failed to list attendees", err)
	}
	if attendees == nil {
		attendees = []*models.Attendee{}
	}
	return attendees, nil
}

// SetExcluded toggles whether an attendee takes part in draws.
// A winner keeps its state until the event is reset.
func (s *checkInService) SetExcluded(ctx context.Context, eventID, attendeeID int64, excluded bool) (*models.Attendee, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	attendee, err := requireAttendee(ctx, uow, eventID, attendeeID)
	if err != nil {
		return nil, err
	}
	if attendee.HasWon {
		return nil, models.ErrAttendeeHasWon
	}

	if attendee.ExcludedFromRaffle != excluded {
		if err := uow.AttendeeRepository().SetExcluded(ctx, attendeeID, excluded); err != nil {
			return nil, storageError("failed to update exclusion", err)
		}
		attendee.ExcludedFromRaffle = excluded
	}

	if err := uow.Commit(); err != nil {
		return nil, models.NewStorageError("failed to commit exclusion", err)
	}

	log.WithFields(log.Fields{
		"eventID":    eventID,
		"attendeeID": attendeeID,
		"excluded":   excluded,
	}).Info("Attendee exclusion updated")

	return attendee, nil
}

// DeleteAttendee removes an attendee who has no winner record
func (s *checkInService) DeleteAttendee(ctx context.Context, eventID, attendeeID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	if _, err := requireAttendee(ctx, uow, eventID, attendeeID); err != nil {
		return err
	}

	won, err := uow.WinnerRepository().ExistsByAttendee(ctx, attendeeID)
	if err != nil {
		return storageError("failed to check winner records", err)
	}
	if won {
		return models.ErrAttendeeHasWon
	}

	if err := uow.AttendeeRepository().Delete(ctx, attendeeID); err != nil {
		return storageError("failed to delete attendee", err)
	}

	if err := uow.Commit(); err != nil {
		return models.NewStorageError("failed to commit attendee deletion", err)
	}

	return nil
}

func requireAttendee(ctx context.Context, uow UnitOfWork, eventID, attendeeID int64) (*models.Attendee, error) {
	attendee, err := uow.AttendeeRepository().GetByID(ctx, eventID, attendeeID)
	if err != nil {
		return nil, storageError("failed to load attendee", err)
	}
	if attendee == nil {
		return nil, models.ErrAttendeeNotFound
	}
	return attendee, nil
}
