package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
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

// PostgresRepository stores bookings and interaction logs in the relational
// database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting mocks for tests.
func NewPostgresRepositoryWithDB(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateBooking inserts a booking row.
func (r *PostgresRepository) CreateBooking(ctx context.Context, params CreateBookingParams) (*Booking, error) {
	id := uuid.New()
	status := params.Status
	if status == "" {
		status = StatusConfirmed
	}

	query := `
		INSERT INTO bookings (id, clinic_id, user_id, patient_name, patient_contact,
			patient_email, emergency_contact_name, medical_history_summary,
			symptoms, appointment_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		params.ClinicID,
		params.UserID,
		params.PatientName,
		params.PatientContact,
		params.PatientEmail,
		params.EmergencyContactName,
		params.MedicalHistorySummary,
		params.Symptoms,
		params.AppointmentTime,
		status,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("bookings: insert failed: %w", err)
	}

	return &Booking{
		ID:                    id,
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
		CreatedAt:             createdAt,
	}, nil
}

// SaveInteractionLog inserts the transcript row for a booking.
func (r *PostgresRepository) SaveInteractionLog(ctx context.Context, log *InteractionLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	query := `
		INSERT INTO interaction_logs (id, booking_id, transcript, summary, severity_score)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	if err := r.db.QueryRow(ctx, query,
		log.ID,
		log.BookingID,
		log.Transcript,
		log.Summary,
		log.SeverityScore,
	).Scan(&log.CreatedAt); err != nil {
		return fmt.Errorf("bookings: insert log failed: %w", err)
	}
	return nil
}

const bookingColumns = `
	b.id, b.clinic_id, b.user_id, b.patient_name, b.patient_contact,
	b.patient_email, b.emergency_contact_name, b.medical_history_summary,
	b.symptoms, b.appointment_time, b.status, b.queue_position,
	b.estimated_wait_mins, b.created_at, c.name, c.address`

// ListByUser returns the user's bookings joined with clinic details, newest
// first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings b
		JOIN clinics c ON c.id = b.clinic_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC`, bookingColumns)
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("bookings: list failed: %w", err)
	}
	defer rows.Close()

	out := []Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: rows failed: %w", err)
	}
	return out, nil
}

// GetByID fetches a single booking joined with clinic details.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings b
		JOIN clinics c ON c.id = b.clinic_id
		WHERE b.id = $1`, bookingColumns)
	row := r.db.QueryRow(ctx, query, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetLog fetches the interaction log for a booking.
func (r *PostgresRepository) GetLog(ctx context.Context, bookingID uuid.UUID) (*InteractionLog, error) {
	query := `
		SELECT id, booking_id, transcript, summary, severity_score, created_at
		FROM interaction_logs
		WHERE booking_id = $1
	`
	row := r.db.QueryRow(ctx, query, bookingID)
	var log InteractionLog
	if err := row.Scan(&log.ID, &log.BookingID, &log.Transcript, &log.Summary, &log.SeverityScore, &log.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLogNotFound
		}
		return nil, fmt.Errorf("bookings: select log failed: %w", err)
	}
	return &log, nil
}

// UpdateQueuePosition records an external queue movement.
func (r *PostgresRepository) UpdateQueuePosition(ctx context.Context, id uuid.UUID, position, estimatedWaitMins int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings SET queue_position = $2, estimated_wait_mins = $3 WHERE id = $1`,
		id, position, estimatedWaitMins)
	if err != nil {
		return fmt.Errorf("bookings: update queue position failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID,
		&b.ClinicID,
		&b.UserID,
		&b.PatientName,
		&b.PatientContact,
		&b.PatientEmail,
		&b.EmergencyContactName,
		&b.MedicalHistorySummary,
		&b.Symptoms,
		&b.AppointmentTime,
		&b.Status,
		&b.QueuePosition,
		&b.EstimatedWaitMins,
		&b.CreatedAt,
		&b.ClinicName,
		&b.ClinicAddress,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("bookings: scan failed: %w", err)
	}
	return &b, nil
}
