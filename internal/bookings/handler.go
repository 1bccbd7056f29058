package bookings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quickcare/quickcare-backend/internal/auth"
	"github.com/quickcare/quickcare-backend/pkg/logging"
)

// Handler exposes the dashboard read endpoints and the queue update hook.
type Handler struct {
	repo    Repository
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a bookings handler.
func NewHandler(repo Repository, service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, service: service, logger: logger}
}

// List handles GET /api/bookings, newest first, scoped to the caller.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	list, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list bookings failed", "user_id", userID, "error", err)
		http.Error(w, "could not load bookings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /api/bookings/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	booking, ok := h.bookingForRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// GetLog handles GET /api/bookings/{id}/log.
func (h *Handler) GetLog(w http.ResponseWriter, r *http.Request) {
	booking, ok := h.bookingForRequest(w, r)
	if !ok {
		return
	}
	log, err := h.repo.GetLog(r.Context(), booking.ID)
	if err != nil {
		if errors.Is(err, ErrLogNotFound) {
			http.Error(w, "no interaction log for this booking", http.StatusNotFound)
			return
		}
		h.logger.Error("get interaction log failed", "booking_id", booking.ID, "error", err)
		http.Error(w, "could not load interaction log", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

// QueueUpdateRequest is the body of PATCH /api/bookings/{id}/queue.
type QueueUpdateRequest struct {
	Position          int `json:"position"`
	EstimatedWaitMins int `json:"estimated_wait_mins"`
}

// UpdateQueue handles PATCH /api/bookings/{id}/queue. Clinics push queue
// movements here; the change fans out to the live feed.
func (h *Handler) UpdateQueue(w http.ResponseWriter, r *http.Request) {
	booking, ok := h.bookingForRequest(w, r)
	if !ok {
		return
	}
	var req QueueUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Position < 0 || req.EstimatedWaitMins < 0 {
		http.Error(w, "position and estimated wait must not be negative", http.StatusBadRequest)
		return
	}
	if err := h.service.UpdateQueuePosition(r.Context(), booking, req.Position, req.EstimatedWaitMins); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		h.logger.Error("queue update failed", "booking_id", booking.ID, "error", err)
		http.Error(w, "could not update queue position", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// bookingForRequest loads the booking in the URL and enforces that
// user-owned bookings are only visible to their owner. Guest bookings have
// no owner to check.
func (h *Handler) bookingForRequest(w http.ResponseWriter, r *http.Request) (*Booking, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid booking id", http.StatusBadRequest)
		return nil, false
	}
	booking, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return nil, false
		}
		h.logger.Error("get booking failed", "booking_id", id, "error", err)
		http.Error(w, "could not load booking", http.StatusInternalServerError)
		return nil, false
	}
	if booking.UserID != nil {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID != *booking.UserID {
			http.Error(w, "booking not found", http.StatusNotFound)
			return nil, false
		}
	}
	return booking, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
