package clinics

import "time"

// Clinic is a row in the clinics table.
type Clinic struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	Specialty         string    `json:"specialty"`
	EmergencyCapable  bool      `json:"is_emergency_capable"`
	CreatedAt         time.Time `json:"created_at"`
}

// Candidate is a clinic decorated for presentation in the results list.
// Wait, price and distance are deterministic placeholders: the store does not
// track operational metadata, and synthesizing it here keeps the result shape
// stable for the UI.
type Candidate struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DoctorLabel    string `json:"doctor_label"`
	Specialty      string `json:"specialty"`
	Clinic         string `json:"clinic"`
	Wait           string `json:"wait"`
	Price          string `json:"price"`
	Distance       string `json:"distance"`
	InsuranceMatch bool   `json:"insurance_match"`
	Address        string `json:"address"`
}
