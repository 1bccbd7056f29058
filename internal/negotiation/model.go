package negotiation

// Speaker tags for dialogue turns.
const (
	SpeakerAgent        = "Agent"
	SpeakerReceptionist = "Receptionist"
	SpeakerSystem       = "System"
	SpeakerError        = "Error"
)

// ActionConfirm marks the terminal turn that triggers booking persistence.
const ActionConfirm = "confirm"

// Negotiation states. A run moves calling -> negotiating -> confirmed.
const (
	StatusCalling     = "calling"
	StatusNegotiating = "negotiating"
	StatusConfirmed   = "confirmed"
)

// Turn is a single dialogue message.
type Turn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Action  string `json:"action,omitempty"`
}

// IsTerminal reports whether this turn carries the confirm action.
func (t Turn) IsTerminal() bool {
	return t.Action == ActionConfirm
}

// Script is an ordered, finite dialogue ending in a confirm turn.
type Script []Turn

// Target identifies the clinic/doctor the agent is negotiating with.
type Target struct {
	ClinicID    string `json:"clinic_id"`
	ClinicName  string `json:"clinic_name"`
	DoctorLabel string `json:"doctor_label"`
}
