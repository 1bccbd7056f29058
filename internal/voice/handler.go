package voice

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quickcare/quickcare-backend/internal/auth"
	"github.com/quickcare/quickcare-backend/internal/negotiation"
	"github.com/quickcare/quickcare-backend/internal/patients"
	"github.com/quickcare/quickcare-backend/pkg/logging"
)

// Handler exposes the real-call endpoint.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a voice handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// StartRequest is the body of POST /api/calls.
type StartRequest struct {
	PhoneNumber string           `json:"phone_number"`
	ClinicID    string           `json:"clinic_id"`
	ClinicName  string           `json:"clinic_name"`
	DoctorLabel string           `json:"doctor"`
	Profile     patients.Profile `json:"profile"`
	Symptoms    string           `json:"symptoms"`
}

// Start handles POST /api/calls. The request blocks through the call window
// and returns the final outcome; closing the connection cancels the run
// before the booking is written.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ClinicID == "" {
		http.Error(w, "clinic_id is required", http.StatusBadRequest)
		return
	}

	params := Params{
		PhoneNumber: req.PhoneNumber,
		Target: negotiation.Target{
			ClinicID:    req.ClinicID,
			ClinicName:  req.ClinicName,
			DoctorLabel: req.DoctorLabel,
		},
		Profile:  req.Profile,
		Symptoms: req.Symptoms,
	}
	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		params.UserID = &userID
	}

	result, err := h.service.NegotiateByPhone(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingPhoneNumber):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, r.Context().Err()):
			// Client went away mid-window; nothing left to write.
		default:
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				h.logger.Warn("outbound call rejected by provider", "status", apiErr.StatusCode)
				http.Error(w, "could not dial the clinic", http.StatusBadGateway)
				return
			}
			h.logger.Error("real call failed", "error", err)
			http.Error(w, "could not dial the clinic", http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)
}
