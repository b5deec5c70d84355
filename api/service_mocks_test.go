package api

import (
	"context"

	"luckydraw/models"

	"github.com/stretchr/testify/mock"
)

type mockEventService struct {
	mock.Mock
}

func (m *mockEventService) CreateEvent(ctx context.Context, name, code string) (*models.Event, error) {
	args := m.Called(ctx, name, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *mockEventService) GetEvent(ctx context.Context, eventID int64) (*models.EventWithStats, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventWithStats), args.Error(1)
}

func (m *mockEventService) ListEvents(ctx context.Context) ([]*models.EventWithStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EventWithStats), args.Error(1)
}

func (m *mockEventService) UpdateEvent(ctx context.Context, eventID int64, name *string, status *models.EventStatus) (*models.Event, error) {
	args := m.Called(ctx, eventID, name, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *mockEventService) SelectPrize(ctx context.Context, eventID int64, prizeID *int64) error {
	args := m.Called(ctx, eventID, prizeID)
	return args.Error(0)
}

func (m *mockEventService) DeleteEvent(ctx context.Context, eventID int64) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

type mockPrizeService struct {
	mock.Mock
}

func (m *mockPrizeService) CreatePrize(ctx context.Context, eventID int64, name string, quantity, displayOrder int) (*models.Prize, error) {
	args := m.Called(ctx, eventID, name, quantity, displayOrder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prize), args.Error(1)
}

func (m *mockPrizeService) ListPrizes(ctx context.Context, eventID int64) ([]*models.Prize, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prize), args.Error(1)
}

func (m *mockPrizeService) UpdatePrize(ctx context.Context, eventID, prizeID int64, update models.PrizeUpdate) (*models.Prize, error) {
	args := m.Called(ctx, eventID, prizeID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prize), args.Error(1)
}

func (m *mockPrizeService) DeletePrize(ctx context.Context, eventID, prizeID int64) error {
	args := m.Called(ctx, eventID, prizeID)
	return args.Error(0)
}

type mockCheckInService struct {
	mock.Mock
}

func (m *mockCheckInService) CheckIn(ctx context.Context, req models.CheckInRequest) (*models.CheckInResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CheckInResult), args.Error(1)
}

func (m *mockCheckInService) ListAttendeesByCode(ctx context.Context, eventCode string) ([]*models.Attendee, error) {
	args := m.Called(ctx, eventCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Attendee), args.Error(1)
}

func (m *mockCheckInService) ListAttendees(ctx context.Context, eventID int64) ([]*models.Attendee, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Attendee), args.Error(1)
}

func (m *mockCheckInService) SetExcluded(ctx context.Context, eventID, attendeeID int64, excluded bool) (*models.Attendee, error) {
	args := m.Called(ctx, eventID, attendeeID, excluded)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attendee), args.Error(1)
}

func (m *mockCheckInService) DeleteAttendee(ctx context.Context, eventID, attendeeID int64) error {
	args := m.Called(ctx, eventID, attendeeID)
	return args.Error(0)
}

type mockDrawService struct {
	mock.Mock
}

func (m *mockDrawService) Draw(ctx context.Context, req models.DrawRequest) (*models.DrawResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DrawResult), args.Error(1)
}

type mockLedgerService struct {
	mock.Mock
}

func (m *mockLedgerService) History(ctx context.Context, eventID int64, prizeID *int64) (*models.DrawHistory, error) {
	args := m.Called(ctx, eventID, prizeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DrawHistory), args.Error(1)
}

func (m *mockLedgerService) Reset(ctx context.Context, eventID int64) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}
