package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"society-parking/internal/data/entity"
	"society-parking/internal/data/repository"
	"society-parking/internal/dto/request"
	"society-parking/internal/dto/response"
	"society-parking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// bookAttempts bounds the retry loop when concurrent bookings race for the
// same slot. Each retry picks a fresh candidate.
const bookAttempts = 3

type BookingService interface {
	Book(ctx context.Context, requester string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	Cancel(ctx context.Context, bookingID, requester string, admin bool) error

	// ExpireElapsed closes every active booking whose window ended before now
	// and frees its slot. Returns the number of bookings transitioned. Safe
	// to run concurrently with itself and with Book/Cancel.
	ExpireElapsed(ctx context.Context, now time.Time) (int, error)

	ListForUser(ctx context.Context, requester string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	ListAll(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo  *repository.Repository
	clock Clock
	log   *zap.Logger
}

func NewBookingService(repo *repository.Repository, clock Clock, log *zap.Logger) BookingService {
	return &bookingService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) Book(ctx context.Context, requester string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	windowEnd, err := parseWindow(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	// Reject past dates outright. Same-day bookings are fine even if the
	// start time already passed; the sweep closes them at window end.
	bookingDate, _ := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	today := s.clock.Now().UTC().Truncate(24 * time.Hour)
	if bookingDate.Before(today) {
		return nil, fmt.Errorf("date %s is in the past: %w", req.Date, ErrInvalidWindow)
	}

	for attempt := 1; attempt <= bookAttempts; attempt++ {
		slot, err := s.repo.Slot.FindFirstAvailable(ctx, entity.SlotKindVisitor)
		if err != nil {
			s.log.Error("Failed to find visitor slot", zap.Error(err))
			return nil, fmt.Errorf("find visitor slot: %w", err)
		}
		if slot == nil {
			return nil, fmt.Errorf("no slots: %w", ErrBookingFailed)
		}

		booking := &entity.Booking{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: s.clock.Now(),
			},
			BookingRef:  utils.GenerateBookingRef(),
			Requester:   requester,
			VisitorName: req.VisitorName,
			VehicleID:   req.VehicleID,
			Date:        req.Date,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			WindowEnd:   windowEnd,
			SlotID:      slot.ID,
			Status:      entity.BookingStatusActive,
		}

		err = s.repo.Booking.CreateWithSlotReservation(ctx, booking)
		if errors.Is(err, repository.ErrSlotNotAvailable) {
			// Lost the race for this slot. Pick a fresh candidate.
			s.log.Warn("Slot reservation contention, retrying",
				zap.String("slot_number", slot.SlotNumber),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			s.log.Error("Failed to create booking",
				zap.Error(err),
				zap.String("requester", requester),
			)
			return nil, fmt.Errorf("create booking: %w", err)
		}

		s.log.Info("Booking created",
			zap.String("booking_id", booking.ID.String()),
			zap.String("booking_ref", booking.BookingRef),
			zap.String("requester", requester),
			zap.String("slot_number", slot.SlotNumber),
			zap.String("date", req.Date),
		)

		resp := response.BookingToResponse(booking, slot.SlotNumber)
		return &resp, nil
	}

	return nil, fmt.Errorf("contention after %d attempts: %w", bookAttempts, ErrBookingFailed)
}

func (s *bookingService) Cancel(ctx context.Context, bookingID, requester string, admin bool) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return fmt.Errorf("booking %s: %w", bookingID, repository.ErrNotFound)
	}

	if !admin && booking.Requester != requester {
		return fmt.Errorf("booking %s belongs to another resident: %w", bookingID, ErrNotAllowed)
	}

	if booking.Terminal() {
		return fmt.Errorf("booking %s is %s: %w", bookingID, booking.Status, repository.ErrAlreadyTerminal)
	}

	err = s.repo.Booking.CloseAndReleaseSlot(ctx, booking.ID, booking.SlotID, entity.BookingStatusCancelled, s.clock.Now())
	if err != nil {
		if !errors.Is(err, repository.ErrAlreadyTerminal) {
			s.log.Error("Failed to cancel booking",
				zap.Error(err),
				zap.String("booking_id", bookingID),
			)
		}
		return err
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("booking_ref", booking.BookingRef),
	)

	return nil
}

func (s *bookingService) ExpireElapsed(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.repo.Booking.FindExpiredActive(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("find expired bookings: %w", err)
	}

	transitioned := 0
	for _, booking := range expired {
		err := s.repo.Booking.CloseAndReleaseSlot(ctx, booking.ID, booking.SlotID, entity.BookingStatusCompleted, now)
		if errors.Is(err, repository.ErrAlreadyTerminal) {
			// A concurrent cancel or sweep got here first.
			continue
		}
		if err != nil {
			s.log.Error("Failed to expire booking",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
			return transitioned, fmt.Errorf("expire booking %s: %w", booking.ID.String(), err)
		}

		s.log.Info("Booking expired",
			zap.String("booking_id", booking.ID.String()),
			zap.String("booking_ref", booking.BookingRef),
			zap.Time("window_end", booking.WindowEnd),
		)
		transitioned++
	}

	return transitioned, nil
}

func (s *bookingService) ListForUser(ctx context.Context, requester string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByRequester(ctx, requester, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get user bookings",
			zap.Error(err),
			zap.String("requester", requester),
		)
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByRequester(ctx, requester)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err))
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	items, err := s.toResponses(ctx, bookings)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *bookingService) ListAll(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := s.repo.Booking.Count(ctx)
	if err != nil {
		s.log.Error("Failed to count bookings", zap.Error(err))
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	items, err := s.toResponses(ctx, bookings)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *bookingService) toResponses(ctx context.Context, bookings []*entity.Booking) ([]response.BookingResponse, error) {
	ids := make([]uuid.UUID, 0, len(bookings))
	seen := make(map[uuid.UUID]struct{}, len(bookings))
	for _, booking := range bookings {
		if _, ok := seen[booking.SlotID]; ok {
			continue
		}
		seen[booking.SlotID] = struct{}{}
		ids = append(ids, booking.SlotID)
	}

	numbers, err := s.repo.Slot.FindNumbersByIDs(ctx, ids)
	if err != nil {
		s.log.Error("Failed to resolve slot numbers for bookings", zap.Error(err))
		return nil, fmt.Errorf("resolve slot numbers: %w", err)
	}

	responses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = response.BookingToResponse(booking, numbers[booking.SlotID])
	}
	return responses, nil
}

// parseWindow validates the requested window and returns its end instant.
// Dates and times are interpreted in UTC.
func parseWindow(date, start, end string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", date, ErrInvalidWindow)
	}

	startAt, err := time.Parse("15:04", start)
	if err != nil {
		return time.Time{}, fmt.Errorf("start time %q: %w", start, ErrInvalidWindow)
	}

	endAt, err := time.Parse("15:04", end)
	if err != nil {
		return time.Time{}, fmt.Errorf("end time %q: %w", end, ErrInvalidWindow)
	}

	if !startAt.Before(endAt) {
		return time.Time{}, fmt.Errorf("start %s not before end %s: %w", start, end, ErrInvalidWindow)
	}

	return day.Add(time.Duration(endAt.Hour())*time.Hour + time.Duration(endAt.Minute())*time.Minute), nil
}
