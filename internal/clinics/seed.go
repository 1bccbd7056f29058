package clinics

// SeedClinics is the starter directory used by local runs and tests. The
// production table is seeded with the same rows by the migrations.
func SeedClinics() []Clinic {
	return []Clinic{
		{ID: "city-clinic", Name: "City Clinic", Address: "1 Main St", Specialty: "General Medicine", EmergencyCapable: false},
		{ID: "heart-center", Name: "Heart Center", Address: "2 Oak Ave", Specialty: "Cardiology", EmergencyCapable: true},
		{ID: "skin-health", Name: "Skin Health Institute", Address: "3 Elm Rd", Specialty: "Dermatology", EmergencyCapable: false},
		{ID: "childrens-care", Name: "Children's Care Group", Address: "4 Pine Ln", Specialty: "Pediatrics", EmergencyCapable: false},
		{ID: "central-er", Name: "Central Emergency Room", Address: "5 River Dr", Specialty: "Emergency Medicine", EmergencyCapable: true},
		{ID: "ortho-plus", Name: "OrthoPlus", Address: "6 Hill Ct", Specialty: "Orthopedics", EmergencyCapable: false},
	}
}
