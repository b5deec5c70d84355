package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"luckydraw/events"
	"luckydraw/models"
	"luckydraw/random"

	log "github.com/sirupsen/logrus"
)

const (
	generatedCodeLength   = 8
	generatedCodeAttempts = 3
	minEventNameLength    = 2
)

// eventService implements the EventService interface
type eventService struct {
	uowFactory   UnitOfWorkFactory
	generateCode func(length int) (string, error)
}

// NewEventService creates a new event administration service
func NewEventService(uowFactory UnitOfWorkFactory) EventService {
	return &eventService{
		uowFactory:   uowFactory,
		generateCode: random.GenerateEventCode,
	}
}

// CreateEvent creates a draft event. An empty code is generated; a generated
// code that collides is regenerated, a caller supplied one is a conflict.
func (s *eventService) CreateEvent(ctx context.Context, name, code string) (*models.Event, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minEventNameLength {
		return nil, invalidInput("EventNameTooShort", map[string]interface{}{"Min": minEventNameLength},
			"event name must be at least %d characters", minEventNameLength)
	}

	code = strings.ToLower(strings.TrimSpace(code))
	if code != "" {
		if !models.IsValidEventCode(code) {
			return nil, invalidInput("EventCodeInvalid", nil, "event code may only contain a-z, 0-9 and '-'")
		}
		return s.insertEvent(ctx, name, code)
	}

	var lastErr error
	for attempt := 0; attempt < generatedCodeAttempts; attempt++ {
		generated, err := s.generateCode(generatedCodeLength)
		if err != nil {
			return nil, err
		}

		event, err := s.insertEvent(ctx, name, generated)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, models.ErrDuplicateEventCode) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

func (s *eventService) insertEvent(ctx context.Context, name, code string) (*models.Event, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	event := &models.Event{
		Code:   code,
		Name:   name,
		Status: models.EventStatusDraft,
	}
	if err := uow.EventRepository().Create(ctx, event); err != nil {
		return nil, storageError("failed to create event", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, models.NewStorageError("failed to commit event", err)
	}

	log.WithFields(log.Fields{
		"eventID": event.ID,
		"code":    event.Code,
	}).Info("Event created")

	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID int64) (*models.EventWithStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	event, err := requireEvent(ctx, uow, eventID)
	if err != nil {
		return nil, err
	}

	stats, err := uow.EventRepository().GetStats(ctx, eventID)
	if err != nil {
		return nil, storageError("failed to load event stats", err)
	}

	return &models.EventWithStats{Event: *event, Stats: *stats}, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*models.EventWithStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	list, err := uow.EventRepository().List(ctx)
	if err != nil {
		return nil, storageError("failed to list events", err)
	}
	if list == nil {
		list = []*models.EventWithStats{}
	}

	return list, nil
}

// UpdateEvent renames an event or moves it between draft, live and ended
func (s *eventService) UpdateEvent(ctx context.Context, eventID int64, name *string, status *models.EventStatus) (*models.Event, error) {
	if name != nil && utf8.RuneCountInString(strings.TrimSpace(*name)) < minEventNameLength {
		return nil, invalidInput("EventNameTooShort", map[string]interface{}{"Min": minEventNameLength},
			"event name must be at least %d characters", minEventNameLength)
	}
	if status != nil && !status.IsValid() {
		return nil, invalidInput("EventStatusInvalid", nil, "unknown event status %q", *status)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	event, err := requireEvent(ctx, uow, eventID)
	if err != nil {
		return nil, err
	}

	previous := event.Status
	if name != nil {
		event.Name = strings.TrimSpace(*name)
	}
	if status != nil {
		event.Status = *status
	}

	if err := uow.EventRepository().Update(ctx, event); err != nil {
		return nil, storageError("failed to update event", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, models.NewStorageError("failed to commit event", err)
	}

	if previous != event.Status {
		log.WithFields(log.Fields{
			"eventID": eventID,
			"from":    previous,
			"to":      event.Status,
		}).Info("Event status changed")
	}

	return event, nil
}

// SelectPrize sets the prize on deck for the next draw. A nil prize clears it.
func (s *eventService) SelectPrize(ctx context.Context, eventID int64, prizeID *int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	if _, err := requireEvent(ctx, uow, eventID); err != nil {
		return err
	}

	if prizeID != nil {
		if _, err := requirePrize(ctx, uow, eventID, *prizeID); err != nil {
			if errors.Is(err, models.ErrPrizeNotFound) {
				return invalidInput("PrizeInvalid", nil, "prize %d does not belong to event %d", *prizeID, eventID)
			}
			return err
		}
	}

	if err := uow.EventRepository().SetCurrentDrawPrize(ctx, eventID, prizeID); err != nil {
		return storageError("failed to select prize", err)
	}

	uow.EventBus().Publish(events.PrizeSelectedEvent{
		EventID: eventID,
		PrizeID: prizeID,
	})

	if err := uow.Commit(); err != nil {
		return models.NewStorageError("failed to commit prize selection", err)
	}

	return nil
}

// DeleteEvent removes an event with its attendees, prizes, draw runs and winners
func (s *eventService) DeleteEvent(ctx context.Context, eventID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	if err := uow.EventRepository().Delete(ctx, eventID); err != nil {
		return storageError("failed to delete event", err)
	}

	if err := uow.Commit(); err != nil {
		return models.NewStorageError("failed to commit event deletion", err)
	}

	log.WithField("eventID", eventID).Info("Event deleted")

	return nil
}
