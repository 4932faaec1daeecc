package repository

import (
	"society-parking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Slot    SlotRepository
	Booking BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Slot:    NewSlotRepository(db, log),
		Booking: NewBookingRepository(db, log),
	}
}
