package adaptor

import (
	"encoding/json"
	"net/http"

	"society-parking/internal/dto/request"
	"society-parking/internal/dto/response"
	"society-parking/internal/usecase"
	"society-parking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	slots   usecase.SlotService
	clock   usecase.Clock
	feed    SlotFeed
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, slots usecase.SlotService, clock usecase.Clock, feed SlotFeed, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		slots:   slots,
		clock:   clock,
		feed:    feed,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/parking/bookings (identity required)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	residentID, ok := utils.GetResidentIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.Book(r.Context(), residentID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create booking")
		return
	}

	if name, ok := utils.GetResidentNameFromContext(r.Context()); ok && name != "" {
		h.log.Info("Visitor booking placed",
			zap.String("resident", name),
			zap.String("booking_ref", booking.BookingRef),
		)
	}

	h.broadcastSnapshot(r)
	utils.ResponseCreated(w, "success", booking)
}

// GetUserBookings handles GET /api/user/parking/bookings (identity required)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	residentID, ok := utils.GetResidentIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := paginationFromQuery(r)

	bookings, err := h.service.ListForUser(r.Context(), residentID, req)
	if err != nil {
		writeServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// CancelBooking handles PUT /api/parking/bookings/{id}/cancel (identity required)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	residentID, ok := utils.GetResidentIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	if err := h.service.Cancel(r.Context(), bookingID, residentID, false); err != nil {
		writeServiceError(w, h.log, err, "cancel booking")
		return
	}

	h.broadcastSnapshot(r)
	utils.ResponseSuccess(w, "success", nil)
}

// ==================== ADMIN METHODS ====================

// GetAllBookings handles GET /api/admin/parking/bookings (admin only)
func (h *BookingHandler) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	req := paginationFromQuery(r)

	bookings, err := h.service.ListAll(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// AdminCancelBooking handles PUT /api/admin/parking/bookings/{id}/cancel (admin only)
func (h *BookingHandler) AdminCancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	if err := h.service.Cancel(r.Context(), bookingID, "", true); err != nil {
		writeServiceError(w, h.log, err, "cancel booking")
		return
	}

	h.broadcastSnapshot(r)
	utils.ResponseSuccess(w, "success", nil)
}

// ExpireElapsed handles POST /api/admin/parking/bookings/expire (admin only)
func (h *BookingHandler) ExpireElapsed(w http.ResponseWriter, r *http.Request) {
	expired, err := h.service.ExpireElapsed(r.Context(), h.clock.Now())
	if err != nil {
		writeServiceError(w, h.log, err, "expire bookings")
		return
	}

	if expired > 0 {
		h.broadcastSnapshot(r)
	}
	utils.ResponseSuccess(w, "success", response.ExpireResponse{Expired: expired})
}

func (h *BookingHandler) broadcastSnapshot(r *http.Request) {
	if h.feed == nil {
		return
	}
	slots, err := h.slots.ListSlots(r.Context())
	if err != nil {
		h.log.Warn("Failed to build slot snapshot for feed", zap.Error(err))
		return
	}
	h.feed.BroadcastSlots(slots)
}

func paginationFromQuery(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}
