package clinics

import "errors"

// ErrClinicNotFound is returned when a clinic is not found
var ErrClinicNotFound = errors.New("clinic not found")
