package triage

// Severity and urgency values the assessment prompt constrains the model to.
const (
	SeverityMild     = "Mild"
	SeverityModerate = "Moderate"
	SeveritySevere   = "Severe"
	SeverityCritical = "Critical"
	SeverityUnknown  = "Unknown"

	UrgencyRoutine      = "Routine"
	UrgencyUrgent       = "Urgent"
	UrgencyEmergency    = "Emergency"
	UrgencyConsultation = "Consultation Required"
)

// Assessment is the structured triage result derived from free-text symptoms.
type Assessment struct {
	Severity               string   `json:"severity"`
	Urgency                string   `json:"urgency"`
	Summary                string   `json:"summary"`
	RecommendedSpecialties []string `json:"recommended_specialties"`
}

// FallbackAssessment is returned whenever the completion call or its parsing
// fails. Triage must never block the booking flow.
func FallbackAssessment() Assessment {
	return Assessment{
		Severity: SeverityUnknown,
		Urgency:  UrgencyConsultation,
		Summary:  "Could not analyze. Please see a doctor.",
	}
}
