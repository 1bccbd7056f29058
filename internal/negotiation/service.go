package negotiation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/quickcare/quickcare-backend/internal/bookings"
	"github.com/quickcare/quickcare-backend/internal/observability/metrics"
	"github.com/quickcare/quickcare-backend/internal/patients"
	"github.com/quickcare/quickcare-backend/pkg/logging"
)

// simulatedAppointmentOffset is how far out the negotiated slot lands.
const simulatedAppointmentOffset = 30 * time.Minute

// Booker persists the terminal side effect of a negotiation.
type Booker interface {
	Confirm(ctx context.Context, params bookings.ConfirmParams) (*bookings.Booking, error)
}

// Service drives a full simulated negotiation: it consumes the engine's turn
// sequence, maintains the transcript, and triggers booking persistence
// exactly once when the terminal turn arrives.
type Service struct {
	engine      *Engine
	booker      Booker
	transcripts *TranscriptStore
	metrics     *metrics.BookingFlowMetrics
	logger      *logging.Logger
}

// NewService creates a negotiation service. transcripts may be nil.
func NewService(engine *Engine, booker Booker, transcripts *TranscriptStore, m *metrics.BookingFlowMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		engine:      engine,
		booker:      booker,
		transcripts: transcripts,
		metrics:     m,
		logger:      logger,
	}
}

// Params describes one negotiation run.
type Params struct {
	Target   Target
	Profile  patients.Profile
	UserID   *uuid.UUID
	Symptoms string
	// Summary is the triage summary carried into the interaction log.
	Summary string
}

// Result is the outcome of a completed negotiation.
type Result struct {
	NegotiationID string            `json:"negotiation_id"`
	Status        string            `json:"status"`
	Transcript    []Turn            `json:"transcript"`
	Booking       *bookings.Booking `json:"booking,omitempty"`
}

// Negotiate runs a simulated negotiation to completion. onTurn, when
// non-nil, observes every emitted turn in order (the streaming handler uses
// it). Cancellation via ctx stops the run after the current suspension
// point; a canceled run performs no persistence.
func (s *Service) Negotiate(ctx context.Context, params Params, onTurn func(Turn)) (*Result, error) {
	negotiationID := uuid.NewString()
	result := &Result{
		NegotiationID: negotiationID,
		Status:        StatusCalling,
		Transcript:    []Turn{},
	}

	s.logger.Info("negotiation started",
		"negotiation_id", negotiationID,
		"clinic_id", params.Target.ClinicID,
	)
	result.Status = StatusNegotiating

	confirmed := false
	for turn := range s.engine.Run(ctx, params.Target, params.Profile) {
		if onTurn != nil {
			onTurn(turn)
		}

		if turn.IsTerminal() {
			// Persistence is attempted exactly once per run.
			result.Booking = s.persist(ctx, params, result.Transcript)
			result.Status = StatusConfirmed
			confirmed = true
			continue
		}

		result.Transcript = append(result.Transcript, turn)
		if err := s.transcripts.Append(ctx, negotiationID, turn); err != nil {
			s.logger.Warn("transcript mirror append failed", "error", err)
		}
	}

	s.metrics.ObserveTurns(len(result.Transcript))

	if !confirmed {
		// The turn sequence ended without a confirm: the caller went away
		// mid-run. Pending turns are discarded and nothing was persisted.
		s.metrics.ObserveNegotiation("simulated", "canceled")
		s.logger.Info("negotiation canceled", "negotiation_id", negotiationID)
		return result, ctx.Err()
	}

	s.metrics.ObserveNegotiation("simulated", "confirmed")
	s.logger.Info("negotiation confirmed",
		"negotiation_id", negotiationID,
		"turns", len(result.Transcript),
	)
	return result, nil
}

// persist writes the booking and interaction log. Failures are logged and
// swallowed: user-visible success is never blocked by persistence failure.
func (s *Service) persist(ctx context.Context, params Params, transcript []Turn) *bookings.Booking {
	summary := params.Summary
	if summary == "" {
		summary = "Booking via AI Simulation"
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
			PatientContact:        contactOrPlaceholder(params.Profile.Phone),
			PatientEmail:          params.Profile.Email,
			EmergencyContactName:  params.Profile.EmergencyContact,
			MedicalHistorySummary: params.Profile.MedicalHistory,
			Symptoms:              symptomsOrDefault(params.Symptoms),
			AppointmentTime:       time.Now().UTC().Add(simulatedAppointmentOffset),
			Status:                bookings.StatusConfirmed,
		},
		Transcript:    string(transcriptJSON),
		Summary:       summary,
		SeverityScore: 1,
	})
	if err != nil {
		s.logger.Error("booking persistence failed, flow continues to confirmed",
			"clinic_id", params.Target.ClinicID,
			"error", err,
		)
		return nil
	}
	return booking
}

func contactOrPlaceholder(phone string) string {
	if phone == "" {
		return "Simulated"
	}
	return phone
}

func symptomsOrDefault(symptoms string) string {
	if symptoms == "" {
		return "Not specified"
	}
	return symptoms
}
