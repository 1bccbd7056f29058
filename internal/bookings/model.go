package bookings

import (
	"time"

	"github.com/google/uuid"
)

// StatusConfirmed is the only status this service writes; queue position and
// later status changes arrive through external updates.
const StatusConfirmed = "confirmed"

// Booking is a confirmed appointment with a denormalized patient snapshot.
type Booking struct {
	ID                    uuid.UUID  `json:"id"`
	ClinicID              string     `json:"clinic_id"`
	UserID                *uuid.UUID `json:"user_id,omitempty"`
	PatientName           string     `json:"patient_name"`
	PatientContact        string     `json:"patient_contact"`
	PatientEmail          string     `json:"patient_email,omitempty"`
	EmergencyContactName  string     `json:"emergency_contact_name,omitempty"`
	MedicalHistorySummary string     `json:"medical_history_summary,omitempty"`
	Symptoms              string     `json:"symptoms"`
	AppointmentTime       time.Time  `json:"appointment_time"`
	Status                string     `json:"status"`
	QueuePosition         *int       `json:"queue_position,omitempty"`
	EstimatedWaitMins     *int       `json:"estimated_wait_mins,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`

	// Joined clinic fields for listings.
	ClinicName    string `json:"clinic_name,omitempty"`
	ClinicAddress string `json:"clinic_address,omitempty"`
}

// InteractionLog is the persisted transcript for a booking, one-to-one.
type InteractionLog struct {
	ID            uuid.UUID `json:"id"`
	BookingID     uuid.UUID `json:"booking_id"`
	Transcript    string    `json:"transcript"`
	Summary       string    `json:"summary"`
	SeverityScore int       `json:"severity_score"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateBookingParams carries everything needed to insert a booking row.
type CreateBookingParams struct {
	ClinicID              string
	UserID                *uuid.UUID
	PatientName           string
	PatientContact        string
	PatientEmail          string
	EmergencyContactName  string
	MedicalHistorySummary string
	Symptoms              string
	AppointmentTime       time.Time
	Status                string
}

// ChangeEvent describes a booking mutation pushed to the realtime feed.
type ChangeEvent struct {
	BookingID     uuid.UUID  `json:"booking_id"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	Status        string     `json:"status"`
	QueuePosition *int       `json:"queue_position,omitempty"`
}
