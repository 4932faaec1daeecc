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

type SlotHandler struct {
	slots    usecase.SlotService
	bookings usecase.BookingService
	clock    usecase.Clock
	feed     SlotFeed
	log      *zap.Logger
}

func NewSlotHandler(slots usecase.SlotService, bookings usecase.BookingService, clock usecase.Clock, feed SlotFeed, log *zap.Logger) *SlotHandler {
	return &SlotHandler{
		slots:    slots,
		bookings: bookings,
		clock:    clock,
		feed:     feed,
		log:      log.With(zap.String("handler", "slot")),
	}
}

// ListSlots handles GET /api/parking/slots (identity required)
func (h *SlotHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	h.sweep(r)

	slots, err := h.slots.ListSlots(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// NextVisitorSlot handles GET /api/parking/slots/next-visitor (identity required)
func (h *SlotHandler) NextVisitorSlot(w http.ResponseWriter, r *http.Request) {
	h.sweep(r)

	slot, err := h.slots.FindAvailableVisitorSlot(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "find visitor slot")
		return
	}

	utils.ResponseSuccess(w, "success", slot)
}

// InitializeSlots handles POST /api/admin/parking/slots/initialize (admin only)
func (h *SlotHandler) InitializeSlots(w http.ResponseWriter, r *http.Request) {
	var req request.InitializeSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	created, err := h.slots.Initialize(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "initialize slots")
		return
	}

	h.broadcastSnapshot(r)
	utils.ResponseCreated(w, "success", response.InitializeSlotsResponse{SlotsCreated: created})
}

// ReserveSlot handles PUT /api/admin/parking/slots/{id}/reserve (admin only)
func (h *SlotHandler) ReserveSlot(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, "id")
	if slotID == "" {
		utils.ResponseBadRequest(w, "Slot ID is required", nil)
		return
	}

	var req request.ReserveSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.slots.Reserve(r.Context(), slotID, &req); err != nil {
		writeServiceError(w, h.log, err, "reserve slot")
		return
	}

	h.broadcastSnapshot(r)
	utils.ResponseSuccess(w, "success", nil)
}

// ReleaseSlot handles PUT /api/admin/parking/slots/{id}/release (admin only)
func (h *SlotHandler) ReleaseSlot(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, "id")
	if slotID == "" {
		utils.ResponseBadRequest(w, "Slot ID is required", nil)
		return
	}

	if err := h.slots.Release(r.Context(), slotID); err != nil {
		writeServiceError(w, h.log, err, "release slot")
		return
	}

	h.broadcastSnapshot(r)
	utils.ResponseSuccess(w, "success", nil)
}

// AssignSlot handles PUT /api/admin/parking/slots/{id}/assign (admin only)
func (h *SlotHandler) AssignSlot(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, "id")
	if slotID == "" {
		utils.ResponseBadRequest(w, "Slot ID is required", nil)
		return
	}

	var req request.AssignSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.slots.AssignResident(r.Context(), slotID, &req); err != nil {
		writeServiceError(w, h.log, err, "assign slot")
		return
	}

	h.broadcastSnapshot(r)
	utils.ResponseSuccess(w, "success", nil)
}

// sweep closes elapsed bookings before serving an availability read so a
// stale active booking never hides a free slot.
func (h *SlotHandler) sweep(r *http.Request) {
	if _, err := h.bookings.ExpireElapsed(r.Context(), h.clock.Now()); err != nil {
		h.log.Warn("Opportunistic expiry sweep failed", zap.Error(err))
	}
}

func (h *SlotHandler) broadcastSnapshot(r *http.Request) {
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
