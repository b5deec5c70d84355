package service

import (
	"context"
	"time"

	"luckydraw/events"
	"luckydraw/models"

	"github.com/stretchr/testify/mock"
)

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventRepository) GetByCode(ctx context.Context, code string) (*models.Event, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context) ([]*models.EventWithStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EventWithStats), args.Error(1)
}

func (m *MockEventRepository) GetStats(ctx context.Context, id int64) (*models.EventStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventStats), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) SetCurrentDrawPrize(ctx context.Context, eventID int64, prizeID *int64) error {
	args := m.Called(ctx, eventID, prizeID)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAttendeeRepository is a mock implementation of AttendeeRepository
type MockAttendeeRepository struct {
	mock.Mock
}

func (m *MockAttendeeRepository) Create(ctx context.Context, attendee *models.Attendee) error {
	args := m.Called(ctx, attendee)
	return args.Error(0)
}

func (m *MockAttendeeRepository) NextTicketNumber(ctx context.Context, eventID int64) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *MockAttendeeRepository) ExistsByPhone(ctx context.Context, eventID int64, normalizedPhone string) (bool, error) {
	args := m.Called(ctx, eventID, normalizedPhone)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttendeeRepository) GetByID(ctx context.Context, eventID, attendeeID int64) (*models.Attendee, error) {
	args := m.Called(ctx, eventID, attendeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attendee), args.Error(1)
}

func (m *MockAttendeeRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.Attendee, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Attendee), args.Error(1)
}

func (m *MockAttendeeRepository) ListEligible(ctx context.Context, eventID int64) ([]*models.Attendee, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Attendee), args.Error(1)
}

func (m *MockAttendeeRepository) MarkWon(ctx context.Context, attendeeID int64) error {
	args := m.Called(ctx, attendeeID)
	return args.Error(0)
}

func (m *MockAttendeeRepository) SetExcluded(ctx context.Context, attendeeID int64, excluded bool) error {
	args := m.Called(ctx, attendeeID, excluded)
	return args.Error(0)
}

func (m *MockAttendeeRepository) ResetWinners(ctx context.Context, eventID int64) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAttendeeRepository) Delete(ctx context.Context, attendeeID int64) error {
	args := m.Called(ctx, attendeeID)
	return args.Error(0)
}

// MockPrizeRepository is a mock implementation of PrizeRepository
type MockPrizeRepository struct {
	mock.Mock
}

func (m *MockPrizeRepository) Create(ctx context.Context, prize *models.Prize) error {
	args := m.Called(ctx, prize)
	return args.Error(0)
}

func (m *MockPrizeRepository) GetByID(ctx context.Context, id int64) (*models.Prize, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prize), args.Error(1)
}

func (m *MockPrizeRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.Prize, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prize), args.Error(1)
}

func (m *MockPrizeRepository) UpdateDetails(ctx context.Context, prize *models.Prize) error {
	args := m.Called(ctx, prize)
	return args.Error(0)
}

func (m *MockPrizeRepository) Resize(ctx context.Context, prizeID int64, newTotal int) (*models.Prize, error) {
	args := m.Called(ctx, prizeID, newTotal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prize), args.Error(1)
}

func (m *MockPrizeRepository) DecrementRemaining(ctx context.Context, prizeID int64) (int, error) {
	args := m.Called(ctx, prizeID)
	return args.Int(0), args.Error(1)
}

func (m *MockPrizeRepository) ResetQuantities(ctx context.Context, eventID int64) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPrizeRepository) Delete(ctx context.Context, prizeID int64) error {
	args := m.Called(ctx, prizeID)
	return args.Error(0)
}

// MockDrawRunRepository is a mock implementation of DrawRunRepository
type MockDrawRunRepository struct {
	mock.Mock
}

func (m *MockDrawRunRepository) Create(ctx context.Context, run *models.DrawRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockDrawRunRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.DrawRun, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DrawRun), args.Error(1)
}

// MockWinnerRepository is a mock implementation of WinnerRepository
type MockWinnerRepository struct {
	mock.Mock
}

func (m *MockWinnerRepository) Create(ctx context.Context, winner *models.Winner) error {
	args := m.Called(ctx, winner)
	return args.Error(0)
}

func (m *MockWinnerRepository) ListByEvent(ctx context.Context, eventID int64, prizeID *int64) ([]*models.WinnerView, error) {
	args := m.Called(ctx, eventID, prizeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WinnerView), args.Error(1)
}

func (m *MockWinnerRepository) CountByPrize(ctx context.Context, prizeID int64) (int, error) {
	args := m.Called(ctx, prizeID)
	return args.Int(0), args.Error(1)
}

func (m *MockWinnerRepository) ExistsByAttendee(ctx context.Context, attendeeID int64) (bool, error) {
	args := m.Called(ctx, attendeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWinnerRepository) DeleteByEvent(ctx context.Context, eventID int64) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository accessors
// return whatever SetRepositories installed.
type MockUnitOfWork struct {
	mock.Mock
	eventRepo    EventRepository
	attendeeRepo AttendeeRepository
	prizeRepo    PrizeRepository
	drawRunRepo  DrawRunRepository
	winnerRepo   WinnerRepository
	bus          EventPublisher
}

// SetRepositories installs the repositories returned by the accessors
func (m *MockUnitOfWork) SetRepositories(eventRepo EventRepository, attendeeRepo AttendeeRepository, prizeRepo PrizeRepository, drawRunRepo DrawRunRepository, winnerRepo WinnerRepository) {
	m.eventRepo = eventRepo
	m.attendeeRepo = attendeeRepo
	m.prizeRepo = prizeRepo
	m.drawRunRepo = drawRunRepo
	m.winnerRepo = winnerRepo
}

// SetEventBus installs the publisher returned by EventBus
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.bus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) EventRepository() EventRepository       { return m.eventRepo }
func (m *MockUnitOfWork) AttendeeRepository() AttendeeRepository { return m.attendeeRepo }
func (m *MockUnitOfWork) PrizeRepository() PrizeRepository       { return m.prizeRepo }
func (m *MockUnitOfWork) DrawRunRepository() DrawRunRepository   { return m.drawRunRepo }
func (m *MockUnitOfWork) WinnerRepository() WinnerRepository     { return m.winnerRepo }

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.bus == nil {
		return discardPublisher{}
	}
	return m.bus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockSelector is a mock implementation of random.Selector
type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) Pick(n int) (int, error) {
	args := m.Called(n)
	return args.Int(0), args.Error(1)
}

// MockDrawMetrics is a mock implementation of DrawMetrics
type MockDrawMetrics struct {
	mock.Mock
}

func (m *MockDrawMetrics) RecordDraw(ctx context.Context, outcome string, attempts int, duration time.Duration) {
	m.Called(ctx, outcome, attempts, duration)
}

func (m *MockDrawMetrics) RecordWinnerConflict(ctx context.Context) {
	m.Called(ctx)
}

type discardPublisher struct{}

func (discardPublisher) Publish(events.Event) {}
