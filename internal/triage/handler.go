package triage

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/quickcare/quickcare-backend/internal/patients"
	"github.com/quickcare/quickcare-backend/pkg/logging"
)

// Handler handles HTTP requests for triage assessments
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new triage handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// AssessRequest is the request body for a triage assessment.
type AssessRequest struct {
	Profile  patients.Profile `json:"profile"`
	Symptoms string           `json:"symptoms"`
}

// Assess handles POST /api/triage requests
func (h *Handler) Assess(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode triage request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := req.Profile.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Symptoms) == "" {
		http.Error(w, "symptoms are required", http.StatusBadRequest)
		return
	}

	assessment := h.service.Assess(r.Context(), req.Symptoms, req.Profile)

	h.logger.Info("triage assessment produced",
		"severity", assessment.Severity,
		"urgency", assessment.Urgency,
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assessment)
}
