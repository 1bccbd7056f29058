package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quickcare/quickcare-backend/internal/llm"
	"github.com/quickcare/quickcare-backend/internal/observability/metrics"
	"github.com/quickcare/quickcare-backend/internal/patients"
	"github.com/quickcare/quickcare-backend/pkg/logging"
)

// Service produces triage assessments from symptom text.
type Service struct {
	client  llm.Client
	logger  *logging.Logger
	metrics *metrics.BookingFlowMetrics
}

// NewService creates a triage service backed by the given completion client.
func NewService(client llm.Client, m *metrics.BookingFlowMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		client:  client,
		logger:  logger,
		metrics: m,
	}
}

// assessmentEnvelope mirrors the JSON shape the prompt demands.
type assessmentEnvelope struct {
	Assessment Assessment `json:"assessment"`
}

// Assess classifies the symptoms for the given profile. It makes a single
// completion attempt and falls back to a canned assessment on any failure;
// it never returns an error.
func (s *Service) Assess(ctx context.Context, symptoms string, profile patients.Profile) Assessment {
	resp, err := s.client.Complete(ctx, llm.Request{
		Temperature: 0.2,
		Messages: []llm.ChatMessage{
			{Role: llm.ChatRoleUser, Content: buildPrompt(symptoms, profile)},
		},
	})
	if err != nil {
		s.logger.Warn("triage completion failed, using fallback", "error", err)
		s.metrics.ObserveTriage("fallback")
		return FallbackAssessment()
	}

	var envelope assessmentEnvelope
	if err := json.Unmarshal([]byte(llm.StripFences(resp.Text)), &envelope); err != nil {
		s.logger.Warn("triage response unparseable, using fallback", "error", err)
		s.metrics.ObserveTriage("fallback")
		return FallbackAssessment()
	}

	assessment := envelope.Assessment
	if strings.TrimSpace(assessment.Severity) == "" || strings.TrimSpace(assessment.Urgency) == "" {
		s.logger.Warn("triage response missing required fields, using fallback")
		s.metrics.ObserveTriage("fallback")
		return FallbackAssessment()
	}

	s.metrics.ObserveTriage("ok")
	return assessment
}

func buildPrompt(symptoms string, profile patients.Profile) string {
	insurance := profile.Insurance
	if insurance == "" {
		insurance = "None"
	}
	return fmt.Sprintf(`You are a smart medical assistant AI for a clinic booking app.

User Profile:
Age: %d
Gender: %s
Insurance: %s

Patient's Complaint: %q

Task: Analyze the severity and recommend the top 2-3 medical specialties the patient should visit.

Return the response strictly as a valid JSON object with the following structure:
{
    "assessment": {
        "severity": "Mild" | "Moderate" | "Severe" | "Critical",
        "urgency": "Routine" | "Urgent" | "Emergency",
        "summary": "Short 1-sentence analysis of the symptoms",
        "recommended_specialties": ["Specialty 1", "Specialty 2"]
    }
}
Return ONLY the JSON. No preamble, no markdown formatting.`,
		profile.Age, profile.Gender, insurance, symptoms)
}
