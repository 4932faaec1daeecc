package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"society-parking/internal/data/entity"
	"society-parking/internal/data/repository"

	"github.com/google/uuid"
)

// memStore is mutex-guarded in-memory state shared by the two fake
// repositories below. The conditional transitions mirror the real store's
// compare-and-set guards so the service layer can be exercised under real
// concurrency.
type memStore struct {
	mu       sync.Mutex
	slots    map[uuid.UUID]*entity.ParkingSlot
	bookings map[uuid.UUID]*entity.Booking
}

func newMemStore() *memStore {
	return &memStore{
		slots:    make(map[uuid.UUID]*entity.ParkingSlot),
		bookings: make(map[uuid.UUID]*entity.Booking),
	}
}

func (s *memStore) repo() *repository.Repository {
	return &repository.Repository{
		Slot:    &memSlotRepo{store: s},
		Booking: &memBookingRepo{store: s},
	}
}

type memSlotRepo struct {
	store *memStore
}

func (r *memSlotRepo) CreateBatch(ctx context.Context, slots []*entity.ParkingSlot) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range slots {
		for _, existing := range s.slots {
			if existing.SlotNumber == slot.SlotNumber {
				return fmt.Errorf("duplicate slot number %s", slot.SlotNumber)
			}
		}
		copied := *slot
		s.slots[slot.ID] = &copied
	}
	return nil
}

func (r *memSlotRepo) Count(ctx context.Context) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.slots)), nil
}

func (r *memSlotRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.ParkingSlot, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	if !ok {
		return nil, nil
	}
	copied := *slot
	return &copied, nil
}

func (r *memSlotRepo) FindAll(ctx context.Context) ([]*entity.ParkingSlot, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedSlotsLocked(), nil
}

func (r *memSlotRepo) FindFirstAvailable(ctx context.Context, kind entity.SlotKind) (*entity.ParkingSlot, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range s.sortedSlotsLocked() {
		if slot.Kind == kind && slot.Status == entity.SlotStatusAvailable {
			return slot, nil
		}
	}
	return nil, nil
}

func (r *memSlotRepo) FindNumbersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	numbers := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if slot, ok := s.slots[id]; ok {
			numbers[id] = slot.SlotNumber
		}
	}
	return numbers, nil
}

func (r *memSlotRepo) Reserve(ctx context.Context, id uuid.UUID, holder, date, start, end string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	if !ok {
		return fmt.Errorf("slot %s: %w", id, repository.ErrNotFound)
	}
	if slot.Kind != entity.SlotKindVisitor {
		return fmt.Errorf("slot %s: %w", id, repository.ErrSlotNotAvailable)
	}
	return s.reserveLocked(id, holder, date, start, end)
}

func (r *memSlotRepo) Release(ctx context.Context, id uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	if !ok {
		return fmt.Errorf("slot %s: %w", id, repository.ErrNotFound)
	}
	s.releaseLocked(slot)
	return nil
}

func (r *memSlotRepo) Assign(ctx context.Context, id uuid.UUID, occupant string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	if !ok {
		return fmt.Errorf("slot %s: %w", id, repository.ErrNotFound)
	}
	if slot.Status != entity.SlotStatusAvailable || slot.Kind != entity.SlotKindResident {
		return fmt.Errorf("slot %s: %w", id, repository.ErrSlotNotAvailable)
	}
	slot.Status = entity.SlotStatusOccupied
	slot.AssignedOccupant = &occupant
	return nil
}

type memBookingRepo struct {
	store *memStore
}

func (r *memBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *booking
	return &copied, nil
}

func (r *memBookingRepo) FindByRequester(ctx context.Context, requester string, limit, offset int) ([]*entity.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*entity.Booking
	for _, booking := range s.sortedBookingsLocked() {
		if booking.Requester == requester {
			result = append(result, booking)
		}
	}
	return page(result, limit, offset), nil
}

func (r *memBookingRepo) CountByRequester(ctx context.Context, requester string) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, booking := range s.bookings {
		if booking.Requester == requester {
			count++
		}
	}
	return count, nil
}

func (r *memBookingRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return page(s.sortedBookingsLocked(), limit, offset), nil
}

func (r *memBookingRepo) Count(ctx context.Context) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.bookings)), nil
}

func (r *memBookingRepo) FindExpiredActive(ctx context.Context, now time.Time) ([]*entity.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*entity.Booking
	for _, booking := range s.sortedBookingsLocked() {
		if booking.Status == entity.BookingStatusActive && booking.WindowEnd.Before(now) {
			result = append(result, booking)
		}
	}
	return result, nil
}

func (r *memBookingRepo) CreateWithSlotReservation(ctx context.Context, booking *entity.Booking) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reserveLocked(booking.SlotID, booking.Requester, booking.Date, booking.StartTime, booking.EndTime); err != nil {
		return err
	}
	copied := *booking
	s.bookings[booking.ID] = &copied
	return nil
}

func (r *memBookingRepo) CloseAndReleaseSlot(ctx context.Context, bookingID, slotID uuid.UUID, status entity.BookingStatus, closedAt time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[bookingID]
	if !ok {
		return fmt.Errorf("booking %s: %w", bookingID, repository.ErrNotFound)
	}
	if booking.Status != entity.BookingStatusActive {
		return fmt.Errorf("booking %s: %w", bookingID, repository.ErrAlreadyTerminal)
	}
	booking.Status = status
	at := closedAt
	booking.ClosedAt = &at
	if slot, ok := s.slots[slotID]; ok {
		s.releaseLocked(slot)
	}
	return nil
}

func (s *memStore) sortedSlotsLocked() []*entity.ParkingSlot {
	result := make([]*entity.ParkingSlot, 0, len(s.slots))
	for _, slot := range s.slots {
		copied := *slot
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SlotNumber < result[j].SlotNumber
	})
	return result
}

func (s *memStore) sortedBookingsLocked() []*entity.Booking {
	result := make([]*entity.Booking, 0, len(s.bookings))
	for _, booking := range s.bookings {
		copied := *booking
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (s *memStore) reserveLocked(id uuid.UUID, holder, date, start, end string) error {
	slot, ok := s.slots[id]
	if !ok {
		return fmt.Errorf("slot %s: %w", id, repository.ErrNotFound)
	}
	if slot.Status != entity.SlotStatusAvailable {
		return fmt.Errorf("slot %s: %w", id, repository.ErrSlotNotAvailable)
	}
	slot.Status = entity.SlotStatusReserved
	slot.ReservedBy = &holder
	slot.ReservedDate = &date
	slot.ReservedStart = &start
	slot.ReservedEnd = &end
	return nil
}

func (s *memStore) releaseLocked(slot *entity.ParkingSlot) {
	slot.Status = entity.SlotStatusAvailable
	slot.AssignedOccupant = nil
	slot.ReservedBy = nil
	slot.ReservedDate = nil
	slot.ReservedStart = nil
	slot.ReservedEnd = nil
}

func page(items []*entity.Booking, limit, offset int) []*entity.Booking {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
