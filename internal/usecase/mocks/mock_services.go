package mocks

import (
	"context"
	"time"

	"society-parking/internal/dto/request"
	"society-parking/internal/dto/response"

	"github.com/stretchr/testify/mock"
)

type MockSlotService struct {
	mock.Mock
}

func (m *MockSlotService) Initialize(ctx context.Context, req *request.InitializeSlotsRequest) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

func (m *MockSlotService) ListSlots(ctx context.Context) ([]response.SlotResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]response.SlotResponse), args.Error(1)
}

func (m *MockSlotService) FindAvailableVisitorSlot(ctx context.Context) (*response.SlotResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.SlotResponse), args.Error(1)
}

func (m *MockSlotService) Reserve(ctx context.Context, slotID string, req *request.ReserveSlotRequest) error {
	args := m.Called(ctx, slotID, req)
	return args.Error(0)
}

func (m *MockSlotService) Release(ctx context.Context, slotID string) error {
	args := m.Called(ctx, slotID)
	return args.Error(0)
}

func (m *MockSlotService) AssignResident(ctx context.Context, slotID string, req *request.AssignSlotRequest) error {
	args := m.Called(ctx, slotID, req)
	return args.Error(0)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Book(ctx context.Context, requester string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, requester, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.BookingResponse), args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, bookingID, requester string, admin bool) error {
	args := m.Called(ctx, bookingID, requester, admin)
	return args.Error(0)
}

func (m *MockBookingService) ExpireElapsed(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingService) ListForUser(ctx context.Context, requester string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	args := m.Called(ctx, requester, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.PaginatedResponse[response.BookingResponse]), args.Error(1)
}

func (m *MockBookingService) ListAll(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.PaginatedResponse[response.BookingResponse]), args.Error(1)
}
