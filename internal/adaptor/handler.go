package adaptor

import (
	"society-parking/internal/dto/response"
	"society-parking/internal/usecase"

	"go.uber.org/zap"
)

// SlotFeed receives inventory snapshots after every slot mutation. The
// websocket hub implements it; handlers only push, the core service stays
// synchronous.
type SlotFeed interface {
	BroadcastSlots(slots []response.SlotResponse)
}

type Handler struct {
	Slot    *SlotHandler
	Booking *BookingHandler
}

func NewHandler(service *usecase.Service, clock usecase.Clock, feed SlotFeed, log *zap.Logger) *Handler {
	return &Handler{
		Slot:    NewSlotHandler(service.Slot, service.Booking, clock, feed, log),
		Booking: NewBookingHandler(service.Booking, service.Slot, clock, feed, log),
	}
}
