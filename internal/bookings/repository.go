package bookings

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for booking and interaction log storage
type Repository interface {
	CreateBooking(ctx context.Context, params CreateBookingParams) (*Booking, error)
	SaveInteractionLog(ctx context.Context, log *InteractionLog) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetLog(ctx context.Context, bookingID uuid.UUID) (*InteractionLog, error)
	UpdateQueuePosition(ctx context.Context, id uuid.UUID, position, estimatedWaitMins int) error
}

// InMemoryRepository is a Repository backed by maps, used in tests and local
// development without a database.
type InMemoryRepository struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]*Booking
	logs     map[uuid.UUID]*InteractionLog // keyed by booking id
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		bookings: make(map[uuid.UUID]*Booking),
		logs:     make(map[uuid.UUID]*InteractionLog),
	}
}

// CreateBooking inserts a booking.
func (r *InMemoryRepository) CreateBooking(ctx context.Context, params CreateBookingParams) (*Booking, error) {
	status := params.Status
	if status == "" {
		status = StatusConfirmed
	}
	b := &Booking{
		ID:                    uuid.New(),
		ClinicID:              params.ClinicID,
		UserID:                params.UserID,
		PatientName:           params.PatientName,
		PatientContact:        params.PatientContact,
		PatientEmail:          params.PatientEmail,
		EmergencyContactName:  params.EmergencyContactName,
		MedicalHistorySummary: params.MedicalHistorySummary,
		Symptoms:              params.Symptoms,
		AppointmentTime:       params.AppointmentTime,
		Status:                status,
		CreatedAt:             time.Now().UTC(),
	}

	r.mu.Lock()
	r.bookings[b.ID] = b
	r.mu.Unlock()

	copied := *b
	return &copied, nil
}

// SaveInteractionLog stores the transcript for a booking.
func (r *InMemoryRepository) SaveInteractionLog(ctx context.Context, log *InteractionLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[log.BookingID]; !ok {
		return ErrBookingNotFound
	}
	copied := *log
	r.logs[log.BookingID] = &copied
	return nil
}

// ListByUser returns the user's bookings, newest first.
func (r *InMemoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Booking{}
	for _, b := range r.bookings {
		if b.UserID != nil && *b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// GetByID returns a booking by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

// GetLog returns the interaction log for a booking.
func (r *InMemoryRepository) GetLog(ctx context.Context, bookingID uuid.UUID) (*InteractionLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	log, ok := r.logs[bookingID]
	if !ok {
		return nil, ErrLogNotFound
	}
	copied := *log
	return &copied, nil
}

// UpdateQueuePosition records an external queue movement.
func (r *InMemoryRepository) UpdateQueuePosition(ctx context.Context, id uuid.UUID, position, estimatedWaitMins int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.QueuePosition = &position
	b.EstimatedWaitMins = &estimatedWaitMins
	return nil
}
