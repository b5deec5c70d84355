package service

import (
	"context"

	"luckydraw/events"
	"luckydraw/models"

	log "github.com/sirupsen/logrus"
)

// ledgerService implements the LedgerService interface
type ledgerService struct {
	uowFactory UnitOfWorkFactory
}

// NewLedgerService creates a new winner ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
	}
}

// History lists winners newest first and reports the prize currently on deck
func (s *ledgerService) History(ctx context.Context, eventID int64, prizeID *int64) (*models.DrawHistory, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	event, err := requireEvent(ctx, uow, eventID)
	if err != nil {
		return nil, err
	}

	winners, err := uow.WinnerRepository().ListByEvent(ctx, eventID, prizeID)
	if err != nil {
		return nil, storageError("failed to list winners", err)
	}
	if winners == nil {
		winners = []*models.WinnerView{}
	}

	history := &models.DrawHistory{Winners: winners}

	// A stale selection pointing at a deleted or foreign prize is reported as none
	if event.CurrentDrawPrizeID != nil {
		prize, err := uow.PrizeRepository().GetByID(ctx, *event.CurrentDrawPrizeID)
		if err != nil {
			return nil, storageError("failed to load selected prize", err)
		}
		if prize != nil && prize.EventID == event.ID {
			history.SelectedPrizeID = &prize.ID
			history.SelectedPrizeName = &prize.Name
		}
	}

	return history, nil
}

// Reset wipes the winner ledger of an event in one transaction
func (s *ledgerService) Reset(ctx context.Context, eventID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	if _, err := requireEvent(ctx, uow, eventID); err != nil {
		return err
	}

	// Winners go first since they reference attendees and prizes
	removed, err := uow.WinnerRepository().DeleteByEvent(ctx, eventID)
	if err != nil {
		return storageError("failed to delete winners", err)
	}

	if _, err := uow.AttendeeRepository().ResetWinners(ctx, eventID); err != nil {
		return storageError("failed to reset attendees", err)
	}

	if _, err := uow.PrizeRepository().ResetQuantities(ctx, eventID); err != nil {
		return storageError("failed to reset prize quantities", err)
	}

	uow.EventBus().Publish(events.RaffleResetEvent{
		EventID:        eventID,
		WinnersRemoved: removed,
	})

	if err := uow.Commit(); err != nil {
		return models.NewStorageError("failed to commit reset", err)
	}

	log.WithFields(log.Fields{
		"eventID":        eventID,
		"winnersRemoved": removed,
	}).Info("Raffle reset")

	return nil
}
