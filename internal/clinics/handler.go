package clinics

import (
	"encoding/json"
	"net/http"

	"github.com/quickcare/quickcare-backend/internal/triage"
	"github.com/quickcare/quickcare-backend/pkg/logging"
)

// Handler handles HTTP requests for clinics
type Handler struct {
	repo    Repository
	matcher *Matcher
	logger  *logging.Logger
}

// NewHandler creates a new clinics handler
func NewHandler(repo Repository, matcher *Matcher, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:    repo,
		matcher: matcher,
		logger:  logger,
	}
}

// List handles GET /api/clinics requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list clinics", "error", err)
		http.Error(w, "failed to list clinics", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(all)
}

// ListEmergency handles GET /api/clinics/emergency requests
func (h *Handler) ListEmergency(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.ListEmergency(r.Context())
	if err != nil {
		h.logger.Error("failed to list emergency clinics", "error", err)
		http.Error(w, "failed to list clinics", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// MatchRequest is the request body for matching clinics to an assessment.
type MatchRequest struct {
	Assessment triage.Assessment `json:"assessment"`
}

// MatchResponse wraps the candidate list.
type MatchResponse struct {
	Candidates []Candidate `json:"candidates"`
	Count      int         `json:"count"`
}

// Match handles POST /api/clinics/match requests
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode match request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	candidates, err := h.matcher.Match(r.Context(), req.Assessment)
	if err != nil {
		h.logger.Error("clinic match failed", "error", err)
		http.Error(w, "failed to match clinics", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MatchResponse{
		Candidates: candidates,
		Count:      len(candidates),
	})
}
