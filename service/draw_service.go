package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"luckydraw/events"
	"luckydraw/models"
	"luckydraw/random"

	log "github.com/sirupsen/logrus"
)

// DefaultMaxDrawAttempts bounds how many candidates one draw may try
const DefaultMaxDrawAttempts = 3

// drawService implements the DrawService interface
type drawService struct {
	uowFactory  UnitOfWorkFactory
	selector    random.Selector
	metrics     DrawMetrics
	maxAttempts int
	now         func() time.Time
}

// NewDrawService creates the draw engine. A nil metrics sink records nothing.
func NewDrawService(uowFactory UnitOfWorkFactory, selector random.Selector, metrics DrawMetrics, maxAttempts int) DrawService {
	if metrics == nil {
		metrics = noopDrawMetrics{}
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxDrawAttempts
	}
	return &drawService{
		uowFactory:  uowFactory,
		selector:    selector,
		metrics:     metrics,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// drawSnapshot is the state read while validating, fixed for the whole attempt
type drawSnapshot struct {
	event *models.Event
	prize *models.Prize
	pool  []*models.Attendee
	run   *models.DrawRun
}

// Draw runs one draw: validating, selecting, then committing candidates until
// one succeeds, a non-conflict error occurs, or the attempt bound is reached.
func (s *drawService) Draw(ctx context.Context, req models.DrawRequest) (*models.DrawResult, error) {
	start := time.Now()
	logger := log.WithFields(log.Fields{
		"eventID":   req.EventID,
		"prizeID":   req.PrizeID,
		"initiator": req.Initiator,
	})

	result, attempts, err := s.draw(ctx, req, logger)

	outcome := string(models.DrawStateSucceeded)
	if err != nil {
		outcome = string(models.KindOf(err))
	}
	s.metrics.RecordDraw(ctx, outcome, attempts, time.Since(start))

	if err != nil {
		entry := logger.WithError(err).WithField("attempts", attempts)
		if models.KindOf(err).Domain() {
			entry.Info("Draw rejected")
		} else {
			entry.Error("Draw failed")
		}
		return nil, err
	}

	logger.WithFields(log.Fields{
		"winnerID":       result.Winner.ID,
		"attendeeID":     result.Winner.AttendeeID,
		"drawRunID":      result.DrawRunID,
		"prizeRemaining": result.PrizeRemaining,
		"attempts":       attempts,
	}).Info("Draw succeeded")

	return result, nil
}

func (s *drawService) draw(ctx context.Context, req models.DrawRequest, logger *log.Entry) (*models.DrawResult, int, error) {
	logger.WithField("state", models.DrawStateValidating).Debug("Draw state")
	snap, err := s.prepare(ctx, req)
	if err != nil {
		return nil, 0, err
	}

	logger = logger.WithField("drawRunID", snap.run.ID)
	logger.WithFields(log.Fields{
		"state":    models.DrawStateSelecting,
		"poolSize": len(snap.pool),
	}).Debug("Draw state")

	tried := make(map[int64]bool)
	limit := attemptLimit(s.maxAttempts, len(snap.pool))
	attempts := 0

	for attempts < limit {
		remaining := remainingCandidates(snap.pool, tried)
		if len(remaining) == 0 {
			break
		}

		idx, err := s.selector.Pick(len(remaining))
		if err != nil {
			return nil, attempts, fmt.Errorf("failed to select candidate: %w", err)
		}
		candidate := remaining[idx]
		tried[candidate.ID] = true
		attempts++

		logger.WithFields(log.Fields{
			"state":      models.DrawStateCommitting,
			"attempt":    attempts,
			"attendeeID": candidate.ID,
		}).Debug("Draw state")

		result, err := s.commit(ctx, snap, candidate)
		if err == nil {
			result.Attempts = attempts
			return result, attempts, nil
		}

		if errors.Is(err, models.ErrWinnerConflict) {
			s.metrics.RecordWinnerConflict(ctx)
			logger.WithFields(log.Fields{
				"state":      models.DrawStateRetrying,
				"attempt":    attempts,
				"attendeeID": candidate.ID,
			}).Warn("Candidate already claimed by a concurrent draw, retrying")
			continue
		}

		return nil, attempts, err
	}

	return nil, attempts, models.NewError(models.ErrorKindNoEligibleCandidates,
		"all %d sampled candidates were claimed by concurrent draws", attempts)
}

// prepare validates preconditions and records the draw run
func (s *drawService) prepare(ctx context.Context, req models.DrawRequest) (*drawSnapshot, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	event, err := uow.EventRepository().GetByID(ctx, req.EventID)
	if err != nil {
		return nil, storageError("failed to load event", err)
	}
	if event == nil {
		return nil, models.NewError(models.ErrorKindEventNotLive, "event %d does not exist", req.EventID)
	}
	if !event.IsLive() {
		return nil, models.NewError(models.ErrorKindEventNotLive, "event %d is %s", event.ID, event.Status)
	}

	prize, err := uow.PrizeRepository().GetByID(ctx, req.PrizeID)
	if err != nil {
		return nil, storageError("failed to load prize", err)
	}
	if prize == nil || prize.EventID != event.ID {
		return nil, models.NewError(models.ErrorKindPrizeNotFound, "prize %d not found in event %d", req.PrizeID, event.ID)
	}
	if prize.IsExhausted() {
		return nil, models.NewError(models.ErrorKindPrizeExhausted, "prize %q has no remaining quantity", prize.Name)
	}

	candidates, err := eligibleCandidates(ctx, uow.AttendeeRepository(), event.ID)
	if err != nil {
		return nil, storageError("failed to load eligible attendees", err)
	}
	if len(candidates) == 0 {
		return nil, models.ErrNoEligibleCandidates
	}

	run := &models.DrawRun{
		EventID:   event.ID,
		PrizeID:   prize.ID,
		CreatedBy: req.Initiator,
	}
	if err := uow.DrawRunRepository().Create(ctx, run); err != nil {
		return nil, storageError("failed to record draw run", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, models.NewStorageError("failed to commit draw run", err)
	}

	return &drawSnapshot{event: event, prize: prize, pool: candidates, run: run}, nil
}

// commit awards the prize to one candidate in a single transaction. The winner
// insert goes first so its unique constraint decides the race before anything else changes.
func (s *drawService) commit(ctx context.Context, snap *drawSnapshot, candidate *models.Attendee) (*models.DrawResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.NewStorageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	winner := &models.Winner{
		EventID:    snap.event.ID,
		PrizeID:    snap.prize.ID,
		DrawRunID:  snap.run.ID,
		AttendeeID: candidate.ID,
		Snapshot:   candidate.Snapshot(),
		WonAt:      s.now().UTC(),
	}
	if err := uow.WinnerRepository().Create(ctx, winner); err != nil {
		return nil, storageError("failed to insert winner", err)
	}

	if err := uow.AttendeeRepository().MarkWon(ctx, candidate.ID); err != nil {
		return nil, storageError("failed to mark attendee as winner", err)
	}

	remaining, err := uow.PrizeRepository().DecrementRemaining(ctx, snap.prize.ID)
	if err != nil {
		return nil, storageError("failed to decrement prize", err)
	}

	uow.EventBus().Publish(events.DrawCompletedEvent{
		EventID:        snap.event.ID,
		EventCode:      snap.event.Code,
		EventName:      snap.event.Name,
		PrizeID:        snap.prize.ID,
		PrizeName:      snap.prize.Name,
		PrizeRemaining: remaining,
		WinnerID:       winner.ID,
		DrawRunID:      snap.run.ID,
		AttendeeID:     candidate.ID,
		FullName:       winner.Snapshot.FullName,
		Department:     winner.Snapshot.Department,
		TicketNumber:   winner.Snapshot.TicketNumber,
		Initiator:      snap.run.CreatedBy,
		WonAt:          winner.WonAt,
	})

	if err := uow.Commit(); err != nil {
		return nil, models.NewStorageError("failed to commit winner", err)
	}

	return &models.DrawResult{
		Winner: models.WinnerView{
			Winner:    *winner,
			PrizeName: snap.prize.Name,
		},
		PrizeRemaining: remaining,
		DrawRunID:      snap.run.ID,
	}, nil
}

// storageError keeps classified errors and marks everything else as a storage failure
func storageError(message string, err error) error {
	var de *models.DrawError
	if errors.As(err, &de) {
		return err
	}
	return models.NewStorageError(message, err)
}

type noopDrawMetrics struct{}

func (noopDrawMetrics) RecordDraw(context.Context, string, int, time.Duration) {}
func (noopDrawMetrics) RecordWinnerConflict(context.Context)                   {}
