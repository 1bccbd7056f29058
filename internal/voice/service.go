package voice

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/quickcare/quickcare-backend/internal/bookings"
	"github.com/quickcare/quickcare-backend/internal/negotiation"
	"github.com/quickcare/quickcare-backend/internal/observability/metrics"
	"github.com/quickcare/quickcare-backend/internal/patients"
	"github.com/quickcare/quickcare-backend/pkg/logging"
)

const (
	// realCallAppointmentOffset is how far out a phone-negotiated slot lands.
	realCallAppointmentOffset = time.Hour
	defaultConfirmDelay       = 15 * time.Second
)

// Dialer places outbound calls.
type Dialer interface {
	CreateCall(ctx context.Context, req CallRequest) (*Call, error)
}

// Booker persists the booking once the call window has elapsed.
type Booker interface {
	Confirm(ctx context.Context, params bookings.ConfirmParams) (*bookings.Booking, error)
}

// Service drives the real-call booking path: dial the clinic, wait out the
// call window, then persist the booking.
type Service struct {
	dialer       Dialer
	booker       Booker
	confirmDelay time.Duration
	metrics      *metrics.BookingFlowMetrics
	logger       *logging.Logger
}

// ServiceOption configures the service.
type ServiceOption func(*Service)

// WithConfirmDelay overrides the wait between call placement and booking.
func WithConfirmDelay(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d >= 0 {
			s.confirmDelay = d
		}
	}
}

// NewService creates the real-call service.
func NewService(dialer Dialer, booker Booker, m *metrics.BookingFlowMetrics, logger *logging.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		dialer:       dialer,
		booker:       booker,
		confirmDelay: defaultConfirmDelay,
		metrics:      m,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Params describes one real-call booking run.
type Params struct {
	PhoneNumber string
	Target      negotiation.Target
	Profile     patients.Profile
	UserID      *uuid.UUID
	Symptoms    string
}

// Result is the outcome of a real-call run.
type Result struct {
	CallID  string            `json:"call_id"`
	Status  string            `json:"status"`
	Booking *bookings.Booking `json:"booking,omitempty"`
}

// NegotiateByPhone dials the clinic and, once the call window elapses, books
// the slot. There is no transcript feedback channel on this path, so the
// booking is written on elapsed time rather than on a confirm signal. A
// failed dial books nothing; a canceled wait books nothing.
func (s *Service) NegotiateByPhone(ctx context.Context, params Params) (*Result, error) {
	if params.PhoneNumber == "" {
		return nil, ErrMissingPhoneNumber
	}

	call, err := s.dialer.CreateCall(ctx, CallRequest{
		CustomerNumber: params.PhoneNumber,
		DoctorName:     params.Target.DoctorLabel,
		PatientName:    params.Profile.DisplayName(),
		Symptoms:       params.Symptoms,
	})
	if err != nil {
		s.metrics.ObserveOutboundCall("failed")
		return nil, err
	}
	s.metrics.ObserveOutboundCall("placed")
	s.logger.Info("real call dialing",
		"call_id", call.ID,
		"clinic_id", params.Target.ClinicID,
	)

	if !waitOrDone(ctx, s.confirmDelay) {
		s.logger.Info("real call run canceled before booking", "call_id", call.ID)
		return &Result{CallID: call.ID, Status: negotiation.StatusCalling}, ctx.Err()
	}

	booking := s.persist(ctx, params)
	s.metrics.ObserveNegotiation("real_call", "confirmed")
	return &Result{CallID: call.ID, Status: negotiation.StatusConfirmed, Booking: booking}, nil
}

// persist writes the booking and its interaction log. Failures are logged
// and swallowed, matching the simulated path.
func (s *Service) persist(ctx context.Context, params Params) *bookings.Booking {
	transcript := []negotiation.Turn{
		{Speaker: negotiation.SpeakerSystem, Text: "AI Agent is dialing the real physical phone number..."},
	}
	transcriptJSON, err := json.Marshal(transcript)
	if err != nil {
		transcriptJSON = []byte("[]")
	}

	booking, err := s.booker.Confirm(ctx, bookings.ConfirmParams{
		Booking: bookings.CreateBookingParams{
			ClinicID:              params.Target.ClinicID,
			UserID:                params.UserID,
			PatientName:           params.Profile.DisplayName(),
			PatientContact:        contactOrPlaceholder(params),
			PatientEmail:          params.Profile.Email,
			EmergencyContactName:  params.Profile.EmergencyContact,
			MedicalHistorySummary: params.Profile.MedicalHistory,
			Symptoms:              symptomsOrDefault(params.Symptoms),
			AppointmentTime:       time.Now().UTC().Add(realCallAppointmentOffset),
			Status:                bookings.StatusConfirmed,
		},
		Transcript:    string(transcriptJSON),
		Summary:       "Booking via Real AI Call",
		SeverityScore: 1,
	})
	if err != nil {
		s.logger.Error("booking persistence failed after real call",
			"clinic_id", params.Target.ClinicID,
			"error", err,
		)
		return nil
	}
	return booking
}

func contactOrPlaceholder(params Params) string {
	if params.PhoneNumber != "" {
		return params.PhoneNumber
	}
	if params.Profile.Phone != "" {
		return params.Profile.Phone
	}
	return "Real Call"
}

func symptomsOrDefault(symptoms string) string {
	if symptoms == "" {
		return "Not specified"
	}
	return symptoms
}

func waitOrDone(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
