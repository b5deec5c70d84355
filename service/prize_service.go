package service

import (
	"context"
	"strings"

	"luckydraw/models"

	log "github.com/sirupsen/logrus"
)

// prizeService implements the PrizeService interface
type prizeService struct {
	uowFactory UnitOfWorkFactory
}

// NewPrizeService creates a new prize inventory service
func NewPrizeService(uowFactory UnitOfWorkFactory) PrizeService {
	return &prizeService{
		uowFactory: uowFactory,
	}
}

// invalidInput builds an InvalidInput error with a localized message id
func invalidInput(messageID string, data map[string]interface{}, format string, args ...interface{}) *models.DrawError {
	return models.NewLocalizedError(models.ErrorKindInvalidInput, messageID, data, format, args...)
}

func (s *prizeService) CreatePrize(ctx context.Context, eventID int64, name string, quantity, displayOrder int) (*models.Prize, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("PrizeNameRequired", nil, "prize name is required")
	}
	if quantity < 1 {
		return nil, invalidInput("PrizeQuantityInvalid", nil, "prize quantity must be at least 1")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	if _, err := requireEvent(ctx, uow, eventID); err != nil {
		return nil, err
	}

	prize := &models.Prize{
		EventID:       eventID,
		Name:          name,
		QuantityTotal: quantity,
		DisplayOrder:  displayOrder,
	}
	if err := uow.PrizeRepository().Create(ctx, prize); err != nil {
		return nil, storageError("failed to create prize", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, models.NewStorageError("failed to commit prize", err)
	}

	log.WithFields(log.Fields{
		"eventID":  eventID,
		"prizeID":  prize.ID,
		"quantity": quantity,
	}).Info("Prize created")

	return prize, nil
}

func (s *prizeService) ListPrizes(ctx context.Context, eventID int64) ([]*models.Prize, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	if _, err := requireEvent(ctx, uow, eventID); err != nil {
		return nil, err
	}

	prizes, err := uow.PrizeRepository().ListByEvent(ctx, eventID)
	if err != nil {
		return nil, storageError("failed to list prizes", err)
	}
	if prizes == nil {
		prizes = []*models.Prize{}
	}

	return prizes, nil
}

// UpdatePrize applies a partial edit. A new quantity keeps the awarded count
// and is rejected when it would drop below it.
func (s *prizeService) UpdatePrize(ctx context.Context, eventID, prizeID int64, update models.PrizeUpdate) (*models.Prize, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, invalidInput("PrizeNameRequired", nil, "prize name is required")
	}
	if update.Quantity != nil && *update.Quantity < 1 {
		return nil, invalidInput("PrizeQuantityInvalid", nil, "prize quantity must be at least 1")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	prize, err := requirePrize(ctx, uow, eventID, prizeID)
	if err != nil {
		return nil, err
	}

	if update.Quantity != nil && *update.Quantity != prize.QuantityTotal {
		prize, err = uow.PrizeRepository().Resize(ctx, prizeID, *update.Quantity)
		if err != nil {
			return nil, storageError("failed to resize prize", err)
		}
	}

	if update.Name != nil || update.DisplayOrder != nil {
		if update.Name != nil {
			prize.Name = strings.TrimSpace(*update.Name)
		}
		if update.DisplayOrder != nil {
			prize.DisplayOrder = *update.DisplayOrder
		}
		if err := uow.PrizeRepository().UpdateDetails(ctx, prize); err != nil {
			return nil, storageError("failed to update prize", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, models.NewStorageError("failed to commit prize", err)
	}

	return prize, nil
}

// DeletePrize removes a prize that no winner references
func (s *prizeService) DeletePrize(ctx context.Context, eventID, prizeID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	if _, err := requirePrize(ctx, uow, eventID, prizeID); err != nil {
		return err
	}

	count, err := uow.WinnerRepository().CountByPrize(ctx, prizeID)
	if err != nil {
		return storageError("failed to count winners", err)
	}
	if count > 0 {
		return models.ErrPrizeHasWinners
	}

	if err := uow.PrizeRepository().Delete(ctx, prizeID); err != nil {
		return storageError("failed to delete prize", err)
	}

	if err := uow.Commit(); err != nil {
		return models.NewStorageError("failed to commit prize deletion", err)
	}

	log.WithFields(log.Fields{
		"eventID": eventID,
		"prizeID": prizeID,
	}).Info("Prize deleted")

	return nil
}

// requireEvent loads an event or reports EventNotFound
func requireEvent(ctx context.Context, uow UnitOfWork, eventID int64) (*models.Event, error) {
	event, err := uow.EventRepository().GetByID(ctx, eventID)
	if err != nil {
		return nil, storageError("failed to load event", err)
	}
	if event == nil {
		return nil, models.ErrEventNotFound
	}
	return event, nil
}

// requirePrize loads a prize of the given event or reports PrizeNotFound
func requirePrize(ctx context.Context, uow UnitOfWork, eventID, prizeID int64) (*models.Prize, error) {
	prize, err := uow.PrizeRepository().GetByID(ctx, prizeID)
	if err != nil {
		return nil, storageError("failed to load prize", err)
	}
	if prize == nil || prize.EventID != eventID {
		return nil, models.ErrPrizeNotFound
	}
	return prize, nil
}
