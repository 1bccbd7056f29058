package bookings

import (
	"context"
	"fmt"

	"github.com/quickcare/quickcare-backend/internal/notify"
	"github.com/quickcare/quickcare-backend/internal/observability/metrics"
	"github.com/quickcare/quickcare-backend/pkg/logging"
)

// ChangePublisher pushes booking mutations onto the realtime feed.
type ChangePublisher interface {
	PublishBookingChange(ctx context.Context, event ChangeEvent) error
}

// Service persists a booking and its interaction log as the terminal side
// effect of a negotiation.
type Service struct {
	repo      Repository
	publisher ChangePublisher
	email     notify.EmailSender
	metrics   *metrics.BookingFlowMetrics
	logger    *logging.Logger
}

// NewService creates a booking service. publisher and email may be nil.
func NewService(repo Repository, publisher ChangePublisher, email notify.EmailSender, m *metrics.BookingFlowMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		email:     email,
		metrics:   m,
		logger:    logger,
	}
}

// ConfirmParams bundles the booking row and its interaction log.
type ConfirmParams struct {
	Booking       CreateBookingParams
	Transcript    string
	Summary       string
	SeverityScore int
}

// Confirm writes the booking, then the interaction log, as two independent,
// explicitly sequenced inserts. The pair is logically atomic but deliberately
// not transactional: a log insert can fail after a successful booking insert,
// and callers treat that as non-fatal.
func (s *Service) Confirm(ctx context.Context, params ConfirmParams) (*Booking, error) {
	booking, err := s.repo.CreateBooking(ctx, params.Booking)
	if err != nil {
		s.metrics.ObserveBookingPersisted("error")
		return nil, fmt.Errorf("bookings: confirm: %w", err)
	}
	s.metrics.ObserveBookingPersisted("ok")

	log := &InteractionLog{
		BookingID:     booking.ID,
		Transcript:    params.Transcript,
		Summary:       params.Summary,
		SeverityScore: params.SeverityScore,
	}
	if err := s.repo.SaveInteractionLog(ctx, log); err != nil {
		// The booking row exists; losing the transcript degrades the
		// dashboard but must not fail the flow.
		s.logger.Error("interaction log persistence failed after booking success",
			"booking_id", booking.ID,
			"error", err,
		)
	}

	s.publishChange(ctx, booking)
	s.sendConfirmationEmail(ctx, booking)

	return booking, nil
}

// UpdateQueuePosition applies an external queue movement and notifies the
// realtime feed.
func (s *Service) UpdateQueuePosition(ctx context.Context, booking *Booking, position, estimatedWaitMins int) error {
	if err := s.repo.UpdateQueuePosition(ctx, booking.ID, position, estimatedWaitMins); err != nil {
		return err
	}
	booking.QueuePosition = &position
	booking.EstimatedWaitMins = &estimatedWaitMins
	s.publishChange(ctx, booking)
	return nil
}

func (s *Service) publishChange(ctx context.Context, booking *Booking) {
	if s.publisher == nil {
		return
	}
	event := ChangeEvent{
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		Status:        booking.Status,
		QueuePosition: booking.QueuePosition,
	}
	if err := s.publisher.PublishBookingChange(ctx, event); err != nil {
		s.logger.Warn("booking change publish failed", "booking_id", booking.ID, "error", err)
	}
}

func (s *Service) sendConfirmationEmail(ctx context.Context, booking *Booking) {
	if s.email == nil || booking.PatientEmail == "" {
		return
	}
	msg := notify.EmailMessage{
		To:      booking.PatientEmail,
		ToName:  booking.PatientName,
		Subject: "Your appointment is confirmed",
		Body: fmt.Sprintf("Hi %s, your appointment is confirmed for %s. Reference: %s.",
			booking.PatientName,
			booking.AppointmentTime.Format("Mon Jan 2 15:04"),
			booking.ID,
		),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Warn("confirmation email failed", "booking_id", booking.ID, "error", err)
	}
}
