// Package classroom is a placeholder API kept alongside the booking flow
// while its real data model is still being defined.
package classroom

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler serves the classroom placeholder endpoints.
type Handler struct{}

// NewHandler creates a classroom handler.
func NewHandler() *Handler {
	return &Handler{}
}

// ListStudents handles GET /students.
func (h *Handler) ListStudents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{"students": []any{}})
}

// GetStudent handles GET /students/{id}.
func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeJSON(w, map[string]string{"id": id, "name": fmt.Sprintf("Student %s", id)})
}

// ListTeachers handles GET /teachers.
func (h *Handler) ListTeachers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{"teachers": []any{}})
}

// GetTeacher handles GET /teachers/{id}.
func (h *Handler) GetTeacher(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeJSON(w, map[string]string{"id": id, "name": fmt.Sprintf("Teacher %s", id)})
}

// AnalyticsOverview handles GET /analytics/overview.
func (h *Handler) AnalyticsOverview(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]int{"activeStudents": 120, "lessonsCompleted": 320})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
