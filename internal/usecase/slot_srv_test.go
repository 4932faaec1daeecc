package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"society-parking/internal/data/entity"
	"society-parking/internal/data/repository"
	"society-parking/internal/dto/request"
	"society-parking/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var testNow = time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

func newSlotFixture(t *testing.T) (usecase.SlotService, *memStore) {
	t.Helper()
	store := newMemStore()
	service := usecase.NewSlotService(store.repo(), fixedClock{now: testNow}, zap.NewNop())
	return service, store
}

func seedSlots(t *testing.T, service usecase.SlotService, residents, visitors int) {
	t.Helper()
	created, err := service.Initialize(context.Background(), &request.InitializeSlotsRequest{
		ResidentCount: residents,
		VisitorCount:  visitors,
	})
	require.NoError(t, err)
	require.Equal(t, residents+visitors, created)
}

func slotByNumber(t *testing.T, store *memStore, number string) *entity.ParkingSlot {
	t.Helper()
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, slot := range store.slots {
		if slot.SlotNumber == number {
			copied := *slot
			return &copied
		}
	}
	t.Fatalf("slot %s not found", number)
	return nil
}

func TestInitializeSlots(t *testing.T) {
	service, store := newSlotFixture(t)

	created, err := service.Initialize(context.Background(), &request.InitializeSlotsRequest{
		ResidentCount: 5,
		VisitorCount:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, created)

	slots, err := service.ListSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 8)

	// Zero-padded labels sort numerically, residents before visitors.
	assert.Equal(t, "R-001", slots[0].SlotNumber)
	assert.Equal(t, "R-005", slots[4].SlotNumber)
	assert.Equal(t, "V-01", slots[5].SlotNumber)
	assert.Equal(t, "V-03", slots[7].SlotNumber)

	for _, slot := range slots {
		assert.Equal(t, entity.SlotStatusAvailable, slot.Status)
	}

	// First half of residents on the ground level, the rest above. Visitor
	// slots all sit at ground level.
	assert.Equal(t, "Ground", slotByNumber(t, store, "R-001").Level)
	assert.Equal(t, "Ground", slotByNumber(t, store, "R-003").Level)
	assert.Equal(t, "First", slotByNumber(t, store, "R-004").Level)
	assert.Equal(t, "First", slotByNumber(t, store, "R-005").Level)
	assert.Equal(t, "Ground", slotByNumber(t, store, "V-02").Level)
}

func TestInitializeSlotsTwiceFails(t *testing.T) {
	service, _ := newSlotFixture(t)
	seedSlots(t, service, 2, 1)

	_, err := service.Initialize(context.Background(), &request.InitializeSlotsRequest{
		ResidentCount: 2,
		VisitorCount:  1,
	})
	assert.ErrorIs(t, err, usecase.ErrAlreadyInitialized)
}

func TestInitializeSlotsValidation(t *testing.T) {
	service, _ := newSlotFixture(t)

	_, err := service.Initialize(context.Background(), &request.InitializeSlotsRequest{
		ResidentCount: 0,
		VisitorCount:  3,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestInitializeSlotsVisitorCap(t *testing.T) {
	service, _ := newSlotFixture(t)

	// Two-digit visitor labels stop sorting numerically past V-99, so the
	// inventory caps there.
	_, err := service.Initialize(context.Background(), &request.InitializeSlotsRequest{
		ResidentCount: 1,
		VisitorCount:  100,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestListSlotsNumericOrderAtCap(t *testing.T) {
	service, _ := newSlotFixture(t)
	seedSlots(t, service, 1, 99)

	slots, err := service.ListSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 100)

	for i := 1; i <= 99; i++ {
		assert.Equal(t, fmt.Sprintf("V-%02d", i), slots[i].SlotNumber)
	}
}

func TestFindAvailableVisitorSlot(t *testing.T) {
	service, _ := newSlotFixture(t)
	seedSlots(t, service, 1, 2)

	slot, err := service.FindAvailableVisitorSlot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "V-01", slot.SlotNumber)
}

func TestFindAvailableVisitorSlotNone(t *testing.T) {
	service, store := newSlotFixture(t)
	seedSlots(t, service, 2, 1)

	slot := slotByNumber(t, store, "V-01")
	require.NoError(t, service.Reserve(context.Background(), slot.ID.String(), &request.ReserveSlotRequest{
		Holder:    "guard-post",
		Date:      "2026-03-20",
		StartTime: "09:00",
		EndTime:   "11:00",
	}))

	_, err := service.FindAvailableVisitorSlot(context.Background())
	assert.ErrorIs(t, err, usecase.ErrNoSlotAvailable)
}

func TestReserveAndReleaseSlot(t *testing.T) {
	service, store := newSlotFixture(t)
	seedSlots(t, service, 1, 1)

	slot := slotByNumber(t, store, "V-01")
	req := &request.ReserveSlotRequest{
		Holder:    "guard-post",
		Date:      "2026-03-20",
		StartTime: "09:00",
		EndTime:   "11:00",
	}

	require.NoError(t, service.Reserve(context.Background(), slot.ID.String(), req))
	reserved := slotByNumber(t, store, "V-01")
	assert.Equal(t, entity.SlotStatusReserved, reserved.Status)
	require.NotNil(t, reserved.ReservedBy)
	assert.Equal(t, "guard-post", *reserved.ReservedBy)

	// A reserved slot cannot be reserved again.
	err := service.Reserve(context.Background(), slot.ID.String(), req)
	assert.ErrorIs(t, err, repository.ErrSlotNotAvailable)

	require.NoError(t, service.Release(context.Background(), slot.ID.String()))
	released := slotByNumber(t, store, "V-01")
	assert.Equal(t, entity.SlotStatusAvailable, released.Status)
	assert.Nil(t, released.ReservedBy)

	// Releasing an available slot is a no-op.
	require.NoError(t, service.Release(context.Background(), slot.ID.String()))
}

func TestReserveSlotInvalidWindow(t *testing.T) {
	service, store := newSlotFixture(t)
	seedSlots(t, service, 1, 1)

	slot := slotByNumber(t, store, "V-01")
	err := service.Reserve(context.Background(), slot.ID.String(), &request.ReserveSlotRequest{
		Holder:    "guard-post",
		Date:      "2026-03-20",
		StartTime: "11:00",
		EndTime:   "09:00",
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidWindow)
}

func TestReserveResidentSlotRejected(t *testing.T) {
	service, store := newSlotFixture(t)
	seedSlots(t, service, 1, 1)

	slot := slotByNumber(t, store, "R-001")
	err := service.Reserve(context.Background(), slot.ID.String(), &request.ReserveSlotRequest{
		Holder:    "guard-post",
		Date:      "2026-03-20",
		StartTime: "09:00",
		EndTime:   "11:00",
	})
	assert.ErrorIs(t, err, usecase.ErrWrongSlotKind)
	assert.Equal(t, entity.SlotStatusAvailable, slotByNumber(t, store, "R-001").Status)
}

func TestReleaseUnknownSlot(t *testing.T) {
	service, _ := newSlotFixture(t)
	seedSlots(t, service, 1, 1)

	err := service.Release(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAssignResidentSlot(t *testing.T) {
	service, store := newSlotFixture(t)
	seedSlots(t, service, 2, 1)

	slot := slotByNumber(t, store, "R-001")
	req := &request.AssignSlotRequest{Occupant: "flat-4B"}

	require.NoError(t, service.AssignResident(context.Background(), slot.ID.String(), req))
	assigned := slotByNumber(t, store, "R-001")
	assert.Equal(t, entity.SlotStatusOccupied, assigned.Status)
	require.NotNil(t, assigned.AssignedOccupant)
	assert.Equal(t, "flat-4B", *assigned.AssignedOccupant)

	// Occupied slots cannot be assigned again.
	err := service.AssignResident(context.Background(), slot.ID.String(), req)
	assert.ErrorIs(t, err, repository.ErrSlotNotAvailable)
}

func TestAssignVisitorSlotRejected(t *testing.T) {
	service, store := newSlotFixture(t)
	seedSlots(t, service, 1, 1)

	slot := slotByNumber(t, store, "V-01")
	err := service.AssignResident(context.Background(), slot.ID.String(), &request.AssignSlotRequest{Occupant: "flat-4B"})
	assert.ErrorIs(t, err, usecase.ErrWrongSlotKind)

	// The visitor slot is untouched.
	assert.Equal(t, entity.SlotStatusAvailable, slotByNumber(t, store, "V-01").Status)
}

func TestAssignUnknownSlot(t *testing.T) {
	service, _ := newSlotFixture(t)
	seedSlots(t, service, 1, 1)

	err := service.AssignResident(context.Background(), uuid.NewString(), &request.AssignSlotRequest{Occupant: "flat-4B"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
