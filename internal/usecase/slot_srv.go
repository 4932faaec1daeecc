package usecase

import (
	"context"
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

type SlotService interface {
	// Initialize seeds the slot inventory once. Fails with
	// ErrAlreadyInitialized when any slot exists.
	Initialize(ctx context.Context, req *request.InitializeSlotsRequest) (int, error)

	ListSlots(ctx context.Context) ([]response.SlotResponse, error)
	FindAvailableVisitorSlot(ctx context.Context) (*response.SlotResponse, error)

	Reserve(ctx context.Context, slotID string, req *request.ReserveSlotRequest) error
	Release(ctx context.Context, slotID string) error
	AssignResident(ctx context.Context, slotID string, req *request.AssignSlotRequest) error
}

type slotService struct {
	repo  *repository.Repository
	clock Clock
	log   *zap.Logger
}

func NewSlotService(repo *repository.Repository, clock Clock, log *zap.Logger) SlotService {
	return &slotService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "slot")),
	}
}

func (s *slotService) Initialize(ctx context.Context, req *request.InitializeSlotsRequest) (int, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Initialize slots validation failed", zap.Any("errors", errs))
		return 0, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	count, err := s.repo.Slot.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("check existing inventory: %w", err)
	}
	if count > 0 {
		return 0, fmt.Errorf("%d slots exist: %w", count, ErrAlreadyInitialized)
	}

	now := s.clock.Now()
	slots := make([]*entity.ParkingSlot, 0, req.ResidentCount+req.VisitorCount)

	// First half of resident slots sit on the ground level, the rest on the
	// first floor. Visitor slots are all ground level near the gate.
	groundResidents := (req.ResidentCount + 1) / 2
	for i := 1; i <= req.ResidentCount; i++ {
		level := "Ground"
		if i > groundResidents {
			level = "First"
		}
		slots = append(slots, newSlot(fmt.Sprintf("R-%03d", i), entity.SlotKindResident, level, now))
	}
	for i := 1; i <= req.VisitorCount; i++ {
		slots = append(slots, newSlot(fmt.Sprintf("V-%02d", i), entity.SlotKindVisitor, "Ground", now))
	}

	if err := s.repo.Slot.CreateBatch(ctx, slots); err != nil {
		s.log.Error("Failed to seed slot inventory", zap.Error(err))
		return 0, fmt.Errorf("seed slot inventory: %w", err)
	}

	s.log.Info("Slot inventory initialized",
		zap.Int("resident_slots", req.ResidentCount),
		zap.Int("visitor_slots", req.VisitorCount),
	)

	return len(slots), nil
}

func (s *slotService) ListSlots(ctx context.Context) ([]response.SlotResponse, error) {
	slots, err := s.repo.Slot.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list slots", zap.Error(err))
		return nil, fmt.Errorf("list slots: %w", err)
	}

	responses := make([]response.SlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = response.SlotToResponse(slot)
	}

	return responses, nil
}

func (s *slotService) FindAvailableVisitorSlot(ctx context.Context) (*response.SlotResponse, error) {
	slot, err := s.repo.Slot.FindFirstAvailable(ctx, entity.SlotKindVisitor)
	if err != nil {
		s.log.Error("Failed to find available visitor slot", zap.Error(err))
		return nil, fmt.Errorf("find available visitor slot: %w", err)
	}
	if slot == nil {
		return nil, ErrNoSlotAvailable
	}

	resp := response.SlotToResponse(slot)
	return &resp, nil
}

func (s *slotService) Reserve(ctx context.Context, slotID string, req *request.ReserveSlotRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reserve slot validation failed", zap.Any("errors", errs))
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(slotID)
	if err != nil {
		return fmt.Errorf("invalid slot ID format %s: %w", slotID, err)
	}

	if _, err := parseWindow(req.Date, req.StartTime, req.EndTime); err != nil {
		return err
	}

	slot, err := s.repo.Slot.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find slot %s: %w", slotID, err)
	}
	if slot == nil {
		return fmt.Errorf("slot %s: %w", slotID, repository.ErrNotFound)
	}
	if slot.Kind != entity.SlotKindVisitor {
		return fmt.Errorf("slot %s is a %s slot: %w", slot.SlotNumber, slot.Kind, ErrWrongSlotKind)
	}

	if err := s.repo.Slot.Reserve(ctx, id, req.Holder, req.Date, req.StartTime, req.EndTime); err != nil {
		return err
	}

	s.log.Info("Slot reserved",
		zap.String("slot_id", slotID),
		zap.String("holder", req.Holder),
		zap.String("date", req.Date),
	)

	return nil
}

func (s *slotService) Release(ctx context.Context, slotID string) error {
	id, err := uuid.Parse(slotID)
	if err != nil {
		return fmt.Errorf("invalid slot ID format %s: %w", slotID, err)
	}

	if err := s.repo.Slot.Release(ctx, id); err != nil {
		return err
	}

	s.log.Info("Slot released", zap.String("slot_id", slotID))
	return nil
}

func (s *slotService) AssignResident(ctx context.Context, slotID string, req *request.AssignSlotRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Assign slot validation failed", zap.Any("errors", errs))
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(slotID)
	if err != nil {
		return fmt.Errorf("invalid slot ID format %s: %w", slotID, err)
	}

	slot, err := s.repo.Slot.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find slot %s: %w", slotID, err)
	}
	if slot == nil {
		return fmt.Errorf("slot %s: %w", slotID, repository.ErrNotFound)
	}
	if slot.Kind != entity.SlotKindResident {
		return fmt.Errorf("slot %s is a %s slot: %w", slot.SlotNumber, slot.Kind, ErrWrongSlotKind)
	}

	if err := s.repo.Slot.Assign(ctx, id, req.Occupant); err != nil {
		return err
	}

	s.log.Info("Resident slot assigned",
		zap.String("slot_number", slot.SlotNumber),
		zap.String("occupant", req.Occupant),
	)

	return nil
}

func newSlot(number string, kind entity.SlotKind, level string, now time.Time) *entity.ParkingSlot {
	return &entity.ParkingSlot{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		SlotNumber: number,
		Kind:       kind,
		Level:      level,
		Status:     entity.SlotStatusAvailable,
	}
}
