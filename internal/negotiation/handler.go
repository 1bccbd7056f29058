package negotiation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/quickcare/quickcare-backend/internal/auth"
	"github.com/quickcare/quickcare-backend/internal/patients"
	"github.com/quickcare/quickcare-backend/pkg/logging"
)

// Handler streams negotiations over server-sent events.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a negotiation handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// StartRequest is the body of POST /api/negotiations.
type StartRequest struct {
	ClinicID    string           `json:"clinic_id"`
	ClinicName  string           `json:"clinic_name"`
	DoctorLabel string           `json:"doctor"`
	Profile     patients.Profile `json:"profile"`
	Symptoms    string           `json:"symptoms"`
	Summary     string           `json:"summary"`
}

// Start handles POST /api/negotiations. Turns are streamed as SSE events
// named "turn"; a final "result" event carries the outcome with the booking
// payload. Closing the connection cancels the run.
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
	if err := req.Profile.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	params := Params{
		Target: Target{
			ClinicID:    req.ClinicID,
			ClinicName:  req.ClinicName,
			DoctorLabel: req.DoctorLabel,
		},
		Profile:  req.Profile,
		Symptoms: req.Symptoms,
		Summary:  req.Summary,
	}
	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		params.UserID = &userID
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	result, err := h.service.Negotiate(r.Context(), params, func(turn Turn) {
		writeEvent(w, "turn", turn)
		flusher.Flush()
	})
	if err != nil {
		if errors.Is(err, r.Context().Err()) {
			// Client went away; nothing left to write.
			return
		}
		h.logger.Error("negotiation stream failed", "error", err)
		writeEvent(w, "error", map[string]string{"message": "negotiation failed"})
		flusher.Flush()
		return
	}

	writeEvent(w, "result", result)
	flusher.Flush()
}

func writeEvent(w http.ResponseWriter, name string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}
