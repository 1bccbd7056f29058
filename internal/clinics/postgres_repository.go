package clinics

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores clinics in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("clinics: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting mocks for tests.
func NewPostgresRepositoryWithDB(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const clinicColumns = `id, name, address, specialty, is_emergency_capable, created_at`

// List returns every clinic. The table is small; no pagination is pushed to
// the store.
func (r *PostgresRepository) List(ctx context.Context) ([]Clinic, error) {
	query := fmt.Sprintf(`SELECT %s FROM clinics ORDER BY name`, clinicColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("clinics: list failed: %w", err)
	}
	defer rows.Close()
	return scanClinics(rows)
}

// ListEmergency returns only emergency-capable clinics.
func (r *PostgresRepository) ListEmergency(ctx context.Context) ([]Clinic, error) {
	query := fmt.Sprintf(`SELECT %s FROM clinics WHERE is_emergency_capable ORDER BY name`, clinicColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("clinics: list emergency failed: %w", err)
	}
	defer rows.Close()
	return scanClinics(rows)
}

// GetByID fetches a single clinic.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Clinic, error) {
	query := fmt.Sprintf(`SELECT %s FROM clinics WHERE id = $1`, clinicColumns)
	row := r.db.QueryRow(ctx, query, id)
	var c Clinic
	if err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Specialty, &c.EmergencyCapable, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClinicNotFound
		}
		return nil, fmt.Errorf("clinics: select failed: %w", err)
	}
	return &c, nil
}

func scanClinics(rows pgx.Rows) ([]Clinic, error) {
	out := []Clinic{}
	for rows.Next() {
		var c Clinic
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Specialty, &c.EmergencyCapable, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("clinics: scan failed: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clinics: rows failed: %w", err)
	}
	return out, nil
}
