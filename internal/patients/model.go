package patients

import "strings"

// Profile holds the demographic and contact fields collected during intake.
// It is never persisted on its own; a denormalized snapshot is written into
// each booking instead.
type Profile struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	Gender           string `json:"gender"`
	Insurance        string `json:"insurance,omitempty"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
	MedicalHistory   string `json:"medical_history,omitempty"`
}

// Validate enforces the required intake fields. This is the only validation
// in the flow that blocks the user; everything downstream degrades gracefully.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	if p.Age <= 0 {
		return ErrMissingAge
	}
	if strings.TrimSpace(p.Gender) == "" {
		return ErrMissingGender
	}
	if strings.TrimSpace(p.Phone) == "" {
		return ErrMissingPhone
	}
	if strings.TrimSpace(p.Email) == "" {
		return ErrMissingEmail
	}
	return nil
}

// DisplayName returns the patient name or a guest placeholder for
// anonymous bookings.
func (p *Profile) DisplayName() string {
	if strings.TrimSpace(p.Name) == "" {
		return "Guest"
	}
	return p.Name
}
