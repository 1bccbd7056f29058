package patients

import "errors"

var (
	// ErrMissingName is returned when the name is empty
	ErrMissingName = errors.New("name is required")

	// ErrMissingAge is returned when the age is missing or non-positive
	ErrMissingAge = errors.New("age is required")

	// ErrMissingGender is returned when no gender is selected
	ErrMissingGender = errors.New("gender is required")

	// ErrMissingPhone is returned when the phone number is empty
	ErrMissingPhone = errors.New("phone number is required")

	// ErrMissingEmail is returned when the email is empty
	ErrMissingEmail = errors.New("email is required")
)
