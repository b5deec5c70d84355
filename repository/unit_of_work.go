package repository

import (
	"context"
	"errors"
	"fmt"

	"luckydraw/database"
	"luckydraw/events"
	"luckydraw/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	eventRepo        service.EventRepository
	attendeeRepo     service.AttendeeRepository
	prizeRepo        service.PrizeRepository
	drawRunRepo      service.DrawRunRepository
	winnerRepo       service.WinnerRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.eventRepo = newEventRepositoryWithTx(tx)
	u.attendeeRepo = newAttendeeRepositoryWithTx(tx)
	u.prizeRepo = newPrizeRepositoryWithTx(tx)
	u.drawRunRepo = newDrawRunRepositoryWithTx(tx)
	u.winnerRepo = newWinnerRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	u.tx = nil
	if err != nil {
		u.transactionalBus.Discard()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.transactionalBus.Flush()

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	u.transactionalBus.Discard()

	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

func (u *unitOfWork) EventRepository() service.EventRepository {
	if u.eventRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.eventRepo
}

func (u *unitOfWork) AttendeeRepository() service.AttendeeRepository {
	if u.attendeeRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.attendeeRepo
}

func (u *unitOfWork) PrizeRepository() service.PrizeRepository {
	if u.prizeRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.prizeRepo
}

func (u *unitOfWork) DrawRunRepository() service.DrawRunRepository {
	if u.drawRunRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.drawRunRepo
}

func (u *unitOfWork) WinnerRepository() service.WinnerRepository {
	if u.winnerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.winnerRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}
