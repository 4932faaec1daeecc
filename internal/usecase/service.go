package usecase

import (
	"society-parking/internal/data/repository"
	"society-parking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Slot    SlotService
	Booking BookingService
}

func NewService(repo *repository.Repository, config *utils.Config, clock Clock, log *zap.Logger) *Service {
	return &Service{
		Slot:    NewSlotService(repo, clock, log),
		Booking: NewBookingService(repo, clock, log),
	}
}
