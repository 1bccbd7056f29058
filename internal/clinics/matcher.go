package clinics

import (
	"context"
	"strings"

	"github.com/quickcare/quickcare-backend/internal/triage"
	"github.com/quickcare/quickcare-backend/pkg/logging"
)

// Matcher filters clinics against a triage recommendation.
type Matcher struct {
	repo   Repository
	logger *logging.Logger
}

// NewMatcher creates a clinic matcher.
func NewMatcher(repo Repository, logger *logging.Logger) *Matcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Matcher{repo: repo, logger: logger}
}

// Match returns candidates whose specialty overlaps the assessment's
// recommendations. Matching is case-insensitive and bidirectional: either
// string containing the other counts. If nothing matches, the full clinic
// set is returned so the user is never shown zero options.
func (m *Matcher) Match(ctx context.Context, assessment triage.Assessment) ([]Candidate, error) {
	all, err := m.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := all
	if len(assessment.RecommendedSpecialties) > 0 {
		filtered = filterBySpecialty(all, assessment.RecommendedSpecialties)
		if len(filtered) == 0 {
			m.logger.Info("no specialty match, falling back to full clinic list",
				"specialties", strings.Join(assessment.RecommendedSpecialties, ","),
			)
			filtered = all
		}
	}

	candidates := make([]Candidate, 0, len(filtered))
	for _, c := range filtered {
		candidates = append(candidates, toCandidate(c))
	}
	return candidates, nil
}

func filterBySpecialty(all []Clinic, specialties []string) []Clinic {
	var out []Clinic
	for _, clinic := range all {
		clinicSpec := strings.ToLower(clinic.Specialty)
		for _, spec := range specialties {
			rec := strings.ToLower(strings.TrimSpace(spec))
			if rec == "" || clinicSpec == "" {
				continue
			}
			if strings.Contains(clinicSpec, rec) || strings.Contains(rec, clinicSpec) {
				out = append(out, clinic)
				break
			}
		}
	}
	return out
}

func toCandidate(c Clinic) Candidate {
	specialty := c.Specialty
	if specialty == "" {
		specialty = "General Practice"
	}
	return Candidate{
		ID:          c.ID,
		Name:        c.Name,
		DoctorLabel: "Dr. Available (" + specialty + ")",
		Specialty:   specialty,
		Clinic:      c.Name,
		// Placeholder operational metadata; the store does not track these.
		Wait:           "10-20 min",
		Price:          "$50",
		Distance:       "1.2 miles",
		InsuranceMatch: true,
		Address:        c.Address,
	}
}
