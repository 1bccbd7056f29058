package clinics

import (
	"context"
	"sync"
)

// Repository defines the interface for clinic storage
type Repository interface {
	List(ctx context.Context) ([]Clinic, error)
	ListEmergency(ctx context.Context) ([]Clinic, error)
	GetByID(ctx context.Context, id string) (*Clinic, error)
}

// InMemoryRepository is a Repository backed by a static slice, used in tests
// and local development without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	clinics []Clinic
}

// NewInMemoryRepository creates a new in-memory repository seeded with the
// given clinics.
func NewInMemoryRepository(clinics []Clinic) *InMemoryRepository {
	return &InMemoryRepository{clinics: clinics}
}

// List returns all clinics.
func (r *InMemoryRepository) List(ctx context.Context) ([]Clinic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Clinic, len(r.clinics))
	copy(out, r.clinics)
	return out, nil
}

// ListEmergency returns only emergency-capable clinics.
func (r *InMemoryRepository) ListEmergency(ctx context.Context) ([]Clinic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Clinic{}
	for _, c := range r.clinics {
		if c.EmergencyCapable {
			out = append(out, c)
		}
	}
	return out, nil
}

// GetByID returns the clinic with the given id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Clinic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clinics {
		if c.ID == id {
			clinic := c
			return &clinic, nil
		}
	}
	return nil, ErrClinicNotFound
}
