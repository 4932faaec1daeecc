package response

import (
	"time"

	"society-parking/internal/data/entity"
)

type ReservationInfo struct {
	HeldBy    string `json:"held_by"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type SlotResponse struct {
	ID               string            `json:"id"`
	SlotNumber       string            `json:"slot_number"`
	Kind             entity.SlotKind   `json:"kind"`
	Level            string            `json:"level"`
	Status           entity.SlotStatus `json:"status"`
	AssignedOccupant *string           `json:"assigned_occupant,omitempty"`
	Reservation      *ReservationInfo  `json:"reservation,omitempty"`
}

type BookingResponse struct {
	ID          string               `json:"id"`
	BookingRef  string               `json:"booking_ref"`
	Requester   string               `json:"requester"`
	VisitorName string               `json:"visitor_name"`
	VehicleID   string               `json:"vehicle_id"`
	Date        string               `json:"date"`
	StartTime   string               `json:"start_time"`
	EndTime     string               `json:"end_time"`
	SlotID      string               `json:"slot_id"`
	SlotNumber  string               `json:"slot_number,omitempty"`
	Status      entity.BookingStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	ClosedAt    *time.Time           `json:"closed_at,omitempty"`
}

type InitializeSlotsResponse struct {
	SlotsCreated int `json:"slots_created"`
}

type ExpireResponse struct {
	Expired int `json:"expired"`
}

// Helper converters

func SlotToResponse(slot *entity.ParkingSlot) SlotResponse {
	resp := SlotResponse{
		ID:               slot.ID.String(),
		SlotNumber:       slot.SlotNumber,
		Kind:             slot.Kind,
		Level:            slot.Level,
		Status:           slot.Status,
		AssignedOccupant: slot.AssignedOccupant,
	}

	if slot.Status == entity.SlotStatusReserved && slot.ReservedBy != nil {
		resp.Reservation = &ReservationInfo{
			HeldBy:    *slot.ReservedBy,
			Date:      deref(slot.ReservedDate),
			StartTime: deref(slot.ReservedStart),
			EndTime:   deref(slot.ReservedEnd),
		}
	}

	return resp
}

func BookingToResponse(booking *entity.Booking, slotNumber string) BookingResponse {
	return BookingResponse{
		ID:          booking.ID.String(),
		BookingRef:  booking.BookingRef,
		Requester:   booking.Requester,
		VisitorName: booking.VisitorName,
		VehicleID:   booking.VehicleID,
		Date:        booking.Date,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		SlotID:      booking.SlotID.String(),
		SlotNumber:  slotNumber,
		Status:      booking.Status,
		CreatedAt:   booking.CreatedAt,
		ClosedAt:    booking.ClosedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
