package service

import (
	"context"
	"errors"
	"testing"

	"luckydraw/events"
	"luckydraw/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type drawMocks struct {
	factory   *MockUnitOfWorkFactory
	uow       *MockUnitOfWork
	events    *MockEventRepository
	attendees *MockAttendeeRepository
	prizes    *MockPrizeRepository
	drawRuns  *MockDrawRunRepository
	winners   *MockWinnerRepository
	bus       *MockEventPublisher
	selector  *MockSelector
	metrics   *MockDrawMetrics
}

func newDrawMocks() *drawMocks {
	m := &drawMocks{
		factory:   new(MockUnitOfWorkFactory),
		uow:       new(MockUnitOfWork),
		events:    new(MockEventRepository),
		attendees: new(MockAttendeeRepository),
		prizes:    new(MockPrizeRepository),
		drawRuns:  new(MockDrawRunRepository),
		winners:   new(MockWinnerRepository),
		bus:       new(MockEventPublisher),
		selector:  new(MockSelector),
		metrics:   new(MockDrawMetrics),
	}
	m.uow.SetRepositories(m.events, m.attendees, m.prizes, m.drawRuns, m.winners)
	m.uow.SetEventBus(m.bus)

	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", mock.Anything).Return(nil)
	m.uow.On("Rollback").Return(nil)
	return m
}

func (m *drawMocks) service() DrawService {
	return NewDrawService(m.factory, m.selector, m.metrics, 3)
}

// expectValidDraw sets up a live event, a prize with remaining units and the given pool
func (m *drawMocks) expectValidDraw(ctx context.Context, pool []*models.Attendee) {
	m.events.On("GetByID", ctx, int64(1)).Return(&models.Event{ID: 1, Code: "gala", Name: "Gala", Status: models.EventStatusLive}, nil)
	m.prizes.On("GetByID", ctx, int64(10)).Return(&models.Prize{ID: 10, EventID: 1, Name: "Bike", QuantityTotal: 2, QuantityRemaining: 2}, nil)
	m.attendees.On("ListEligible", ctx, int64(1)).Return(pool, nil)
	m.drawRuns.On("Create", ctx, mock.AnythingOfType("*models.DrawRun")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.DrawRun).ID = 99
	})
}

func drawRequest() models.DrawRequest {
	return models.DrawRequest{EventID: 1, PrizeID: 10, Initiator: "admin"}
}

func TestDrawService_Draw_Success(t *testing.T) {
	ctx := context.Background()
	m := newDrawMocks()
	m.expectValidDraw(ctx, testPool(1, 2, 3))

	m.uow.On("Commit").Return(nil)
	m.selector.On("Pick", 3).Return(1, nil)
	m.winners.On("Create", ctx, mock.MatchedBy(func(w *models.Winner) bool {
		return w.EventID == 1 && w.PrizeID == 10 && w.AttendeeID == 2 && w.DrawRunID == 99 &&
			w.Snapshot.TicketNumber == 2 && !w.WonAt.IsZero()
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Winner).ID = 7
	})
	m.attendees.On("MarkWon", ctx, int64(2)).Return(nil)
	m.prizes.On("DecrementRemaining", ctx, int64(10)).Return(1, nil)
	m.bus.On("Publish", mock.MatchedBy(func(e events.DrawCompletedEvent) bool {
		return e.WinnerID == 7 && e.AttendeeID == 2 && e.PrizeRemaining == 1 && e.Initiator == "admin" && e.EventCode == "gala"
	})).Return()
	m.metrics.On("RecordDraw", ctx, "succeeded", 1, mock.Anything).Return()

	result, err := m.service().Draw(ctx, drawRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(7), result.Winner.ID)
	assert.Equal(t, int64(2), result.Winner.AttendeeID)
	assert.Equal(t, "Bike", result.Winner.PrizeName)
	assert.Equal(t, 1, result.PrizeRemaining)
	assert.Equal(t, int64(99), result.DrawRunID)
	assert.Equal(t, 1, result.Attempts)

	m.winners.AssertExpectations(t)
	m.attendees.AssertExpectations(t)
	m.prizes.AssertExpectations(t)
	m.bus.AssertExpectations(t)
	m.metrics.AssertExpectations(t)
	m.drawRuns.AssertExpectations(t)
}

func TestDrawService_Draw_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		event *models.Event
		prize *models.Prize
		pool  []*models.Attendee
		want  *models.DrawError
	}{
		{
			name: "missing event",
			want: models.ErrEventNotLive,
		},
		{
			name:  "draft event",
			event: &models.Event{ID: 1, Status: models.EventStatusDraft},
			want:  models.ErrEventNotLive,
		},
		{
			name:  "ended event",
			event: &models.Event{ID: 1, Status: models.EventStatusEnded},
			want:  models.ErrEventNotLive,
		},
		{
			name:  "missing prize",
			event: &models.Event{ID: 1, Status: models.EventStatusLive},
			want:  models.ErrPrizeNotFound,
		},
		{
			name:  "prize of another event",
			event: &models.Event{ID: 1, Status: models.EventStatusLive},
			prize: &models.Prize{ID: 10, EventID: 2, QuantityTotal: 1, QuantityRemaining: 1},
			want:  models.ErrPrizeNotFound,
		},
		{
			name:  "exhausted prize",
			event: &models.Event{ID: 1, Status: models.EventStatusLive},
			prize: &models.Prize{ID: 10, EventID: 1, QuantityTotal: 1, QuantityRemaining: 0},
			want:  models.ErrPrizeExhausted,
		},
		{
			name:  "empty pool",
			event: &models.Event{ID: 1, Status: models.EventStatusLive},
			prize: &models.Prize{ID: 10, EventID: 1, QuantityTotal: 1, QuantityRemaining: 1},
			pool:  []*models.Attendee{},
			want:  models.ErrNoEligibleCandidates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m := newDrawMocks()

			m.events.On("GetByID", ctx, int64(1)).Return(tt.event, nil)
			m.prizes.On("GetByID", ctx, int64(10)).Return(tt.prize, nil)
			m.attendees.On("ListEligible", ctx, int64(1)).Return(tt.pool, nil)
			m.metrics.On("RecordDraw", ctx, string(tt.want.Kind), 0, mock.Anything).Return()

			result, err := m.service().Draw(ctx, drawRequest())

			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.want)
			m.drawRuns.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			m.winners.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			m.uow.AssertNotCalled(t, "Commit")
			m.metrics.AssertExpectations(t)
		})
	}
}

func TestDrawService_Draw_RetriesOnWinnerConflict(t *testing.T) {
	ctx := context.Background()
	m := newDrawMocks()
	m.expectValidDraw(ctx, testPool(1, 2, 3))

	m.uow.On("Commit").Return(nil)
	m.selector.On("Pick", 3).Return(0, nil).Once()
	m.selector.On("Pick", 2).Return(0, nil).Once()

	m.winners.On("Create", ctx, mock.MatchedBy(func(w *models.Winner) bool { return w.AttendeeID == 1 })).
		Return(models.ErrWinnerConflict).Once()
	m.winners.On("Create", ctx, mock.MatchedBy(func(w *models.Winner) bool { return w.AttendeeID == 2 })).
		Return(nil).Once()
	m.attendees.On("MarkWon", ctx, int64(2)).Return(nil)
	m.prizes.On("DecrementRemaining", ctx, int64(10)).Return(1, nil)
	m.bus.On("Publish", mock.AnythingOfType("events.DrawCompletedEvent")).Return()
	m.metrics.On("RecordWinnerConflict", ctx).Return().Once()
	m.metrics.On("RecordDraw", ctx, "succeeded", 2, mock.Anything).Return()

	result, err := m.service().Draw(ctx, drawRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Winner.AttendeeID)
	assert.Equal(t, 2, result.Attempts)
	m.attendees.AssertNotCalled(t, "MarkWon", ctx, int64(1))
	m.selector.AssertExpectations(t)
	m.metrics.AssertExpectations(t)
}

func TestDrawService_Draw_RetriesWhenAttendeeClaimedConcurrently(t *testing.T) {
	ctx := context.Background()
	m := newDrawMocks()
	m.expectValidDraw(ctx, testPool(1, 2))

	m.uow.On("Commit").Return(nil)
	m.selector.On("Pick", 2).Return(1, nil).Once()
	m.selector.On("Pick", 1).Return(0, nil).Once()

	m.winners.On("Create", ctx, mock.AnythingOfType("*models.Winner")).Return(nil)
	m.attendees.On("MarkWon", ctx, int64(2)).Return(models.ErrWinnerConflict).Once()
	m.attendees.On("MarkWon", ctx, int64(1)).Return(nil).Once()
	m.prizes.On("DecrementRemaining", ctx, int64(10)).Return(0, nil).Once()
	m.bus.On("Publish", mock.AnythingOfType("events.DrawCompletedEvent")).Return().Once()
	m.metrics.On("RecordWinnerConflict", ctx).Return()
	m.metrics.On("RecordDraw", ctx, "succeeded", 2, mock.Anything).Return()

	result, err := m.service().Draw(ctx, drawRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Winner.AttendeeID)
	assert.Equal(t, 0, result.PrizeRemaining)
	m.prizes.AssertNumberOfCalls(t, "DecrementRemaining", 1)
	m.bus.AssertNumberOfCalls(t, "Publish", 1)
}

func TestDrawService_Draw_ConflictsExhaustAttempts(t *testing.T) {
	ctx := context.Background()
	m := newDrawMocks()
	m.expectValidDraw(ctx, testPool(1, 2, 3, 4, 5))

	m.selector.On("Pick", mock.AnythingOfType("int")).Return(0, nil)
	m.winners.On("Create", ctx, mock.AnythingOfType("*models.Winner")).Return(models.ErrWinnerConflict)
	m.uow.On("Commit").Return(nil).Once()
	m.metrics.On("RecordWinnerConflict", ctx).Return()
	m.metrics.On("RecordDraw", ctx, string(models.ErrorKindNoEligibleCandidates), 3, mock.Anything).Return()

	result, err := m.service().Draw(ctx, drawRequest())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrNoEligibleCandidates)
	m.winners.AssertNumberOfCalls(t, "Create", 3)
	m.metrics.AssertNumberOfCalls(t, "RecordWinnerConflict", 3)
	m.selector.AssertCalled(t, "Pick", 5)
	m.selector.AssertCalled(t, "Pick", 4)
	m.selector.AssertCalled(t, "Pick", 3)
	m.attendees.AssertNotCalled(t, "MarkWon", mock.Anything, mock.Anything)
	// only the draw run commit happened
	m.uow.AssertNumberOfCalls(t, "Commit", 1)
}

func TestDrawService_Draw_PrizeExhaustedDuringCommit(t *testing.T) {
	ctx := context.Background()
	m := newDrawMocks()
	m.expectValidDraw(ctx, testPool(1, 2, 3))

	m.uow.On("Commit").Return(nil).Once()
	m.selector.On("Pick", 3).Return(0, nil).Once()
	m.winners.On("Create", ctx, mock.AnythingOfType("*models.Winner")).Return(nil)
	m.attendees.On("MarkWon", ctx, int64(1)).Return(nil)
	m.prizes.On("DecrementRemaining", ctx, int64(10)).Return(0, models.ErrPrizeExhausted)
	m.metrics.On("RecordDraw", ctx, string(models.ErrorKindPrizeExhausted), 1, mock.Anything).Return()

	result, err := m.service().Draw(ctx, drawRequest())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrPrizeExhausted)
	m.selector.AssertNumberOfCalls(t, "Pick", 1)
	m.bus.AssertNotCalled(t, "Publish", mock.Anything)
	m.uow.AssertNumberOfCalls(t, "Commit", 1)
}

func TestDrawService_Draw_StorageFailureAborts(t *testing.T) {
	ctx := context.Background()
	m := newDrawMocks()
	m.expectValidDraw(ctx, testPool(1, 2, 3))

	m.uow.On("Commit").Return(nil).Once()
	m.selector.On("Pick", 3).Return(2, nil).Once()
	m.winners.On("Create", ctx, mock.AnythingOfType("*models.Winner")).Return(nil)
	m.attendees.On("MarkWon", ctx, int64(3)).Return(errors.New("connection reset"))
	m.metrics.On("RecordDraw", ctx, string(models.ErrorKindStorageUnavailable), 1, mock.Anything).Return()

	_, err := m.service().Draw(ctx, drawRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "connection reset")
	m.selector.AssertNumberOfCalls(t, "Pick", 1)
	m.prizes.AssertNotCalled(t, "DecrementRemaining", mock.Anything, mock.Anything)
}

func TestDrawService_Draw_CommitFailure(t *testing.T) {
	ctx := context.Background()
	m := newDrawMocks()
	m.expectValidDraw(ctx, testPool(1))

	m.uow.On("Commit").Return(nil).Once()
	m.uow.On("Commit").Return(errors.New("commit failed")).Once()
	m.selector.On("Pick", 1).Return(0, nil)
	m.winners.On("Create", ctx, mock.AnythingOfType("*models.Winner")).Return(nil)
	m.attendees.On("MarkWon", ctx, int64(1)).Return(nil)
	m.prizes.On("DecrementRemaining", ctx, int64(10)).Return(1, nil)
	m.bus.On("Publish", mock.Anything).Return()
	m.metrics.On("RecordDraw", ctx, string(models.ErrorKindStorageUnavailable), 1, mock.Anything).Return()

	_, err := m.service().Draw(ctx, drawRequest())

	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
}

func TestDrawService_Draw_SelectorFailure(t *testing.T) {
	ctx := context.Background()
	m := newDrawMocks()
	m.expectValidDraw(ctx, testPool(1, 2))

	m.uow.On("Commit").Return(nil).Once()
	m.selector.On("Pick", 2).Return(0, errors.New("entropy unavailable"))
	m.metrics.On("RecordDraw", ctx, string(models.ErrorKindStorageUnavailable), 0, mock.Anything).Return()

	_, err := m.service().Draw(ctx, drawRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "entropy unavailable")
	m.winners.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDrawService_Draw_LoadEventFailure(t *testing.T) {
	ctx := context.Background()
	m := newDrawMocks()

	m.events.On("GetByID", ctx, int64(1)).Return(nil, errors.New("pool closed"))
	m.metrics.On("RecordDraw", ctx, string(models.ErrorKindStorageUnavailable), 0, mock.Anything).Return()

	_, err := m.service().Draw(ctx, drawRequest())

	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
	assert.True(t, models.KindOf(err).Transient())
}

func TestNewDrawService_Defaults(t *testing.T) {
	svc := NewDrawService(new(MockUnitOfWorkFactory), new(MockSelector), nil, 0).(*drawService)

	assert.Equal(t, DefaultMaxDrawAttempts, svc.maxAttempts)
	assert.IsType(t, noopDrawMetrics{}, svc.metrics)
}
