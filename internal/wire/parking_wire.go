package wire

import (
	"society-parking/internal/adaptor"
	"society-parking/internal/websocket"
	"society-parking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireParking(r chi.Router, handler *adaptor.Handler, hub *websocket.Hub, log *zap.Logger) {
	// ==================== RESIDENT ROUTES (identity required) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(log))

		// Slot inventory and availability
		r.Get("/api/parking/slots", handler.Slot.ListSlots)
		r.Get("/api/parking/slots/next-visitor", handler.Slot.NextVisitorSlot)

		// Visitor bookings
		r.Post("/api/parking/bookings", handler.Booking.CreateBooking)
		r.Get("/api/user/parking/bookings", handler.Booking.GetUserBookings)
		r.Put("/api/parking/bookings/{id}/cancel", handler.Booking.CancelBooking)
	})

	// ==================== PUBLIC ROUTES ====================
	// Live slot snapshot feed for the dashboards; the gateway fronts it.
	r.Get("/api/parking/slots/live", hub.ServeWS)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/parking", func(r chi.Router) {
		r.Use(middleware.Identity(log))
		r.Use(middleware.Admin(log))

		r.Post("/slots/initialize", handler.Slot.InitializeSlots)
		r.Put("/slots/{id}/reserve", handler.Slot.ReserveSlot)
		r.Put("/slots/{id}/release", handler.Slot.ReleaseSlot)
		r.Put("/slots/{id}/assign", handler.Slot.AssignSlot)

		r.Get("/bookings", handler.Booking.GetAllBookings)
		r.Put("/bookings/{id}/cancel", handler.Booking.AdminCancelBooking)
		r.Post("/bookings/expire", handler.Booking.ExpireElapsed)
	})
}
