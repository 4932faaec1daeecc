package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	BaseSimple
	BookingRef  string        `db:"booking_ref"`
	Requester   string        `db:"requester"`
	VisitorName string        `db:"visitor_name"`
	VehicleID   string        `db:"vehicle_id"`
	Date        string        `db:"date"`       // 2006-01-02
	StartTime   string        `db:"start_time"` // 15:04
	EndTime     string        `db:"end_time"`   // 15:04
	WindowEnd   time.Time     `db:"window_end"` // derived from date+end_time, used for expiry
	SlotID      uuid.UUID     `db:"slot_id"`
	Status      BookingStatus `db:"status"`
	ClosedAt    *time.Time    `db:"closed_at"` // set when cancelled or completed
}

// Terminal reports whether the booking has left the active state.
// Cancelled and completed bookings never transition again.
func (b *Booking) Terminal() bool {
	return b.Status != BookingStatusActive
}
