package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestPostgresCreateBooking(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	appointment := now.Add(30 * time.Minute)
	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(pgxmock.AnyArg(), "clinic-1", (*uuid.UUID)(nil), "Jane Doe", "+15550001111",
			"jane@example.com", "", "", "chest pain", appointment, StatusConfirmed).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	repo := NewPostgresRepositoryWithDB(mock)
	booking, err := repo.CreateBooking(context.Background(), CreateBookingParams{
		ClinicID:        "clinic-1",
		PatientName:     "Jane Doe",
		PatientContact:  "+15550001111",
		PatientEmail:    "jane@example.com",
		Symptoms:        "chest pain",
		AppointmentTime: appointment,
		Status:          StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.ID == uuid.Nil {
		t.Errorf("expected generated id")
	}
	if !booking.CreatedAt.Equal(now) {
		t.Errorf("expected returned created_at, got %v", booking.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreateBookingDefaultsStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	appointment := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(pgxmock.AnyArg(), "clinic-1", (*uuid.UUID)(nil), "Guest", "Simulated",
			"", "", "", "Not specified", appointment, StatusConfirmed).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))

	repo := NewPostgresRepositoryWithDB(mock)
	booking, err := repo.CreateBooking(context.Background(), CreateBookingParams{
		ClinicID:        "clinic-1",
		PatientName:     "Guest",
		PatientContact:  "Simulated",
		Symptoms:        "Not specified",
		AppointmentTime: appointment,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != StatusConfirmed {
		t.Errorf("expected default status confirmed, got %q", booking.Status)
	}
}

func TestPostgresSaveInteractionLog(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	bookingID := uuid.New()
	mock.ExpectQuery("INSERT INTO interaction_logs").
		WithArgs(pgxmock.AnyArg(), bookingID, `[{"speaker":"Agent","text":"Hi"}]`, "Booking via AI Simulation", 1).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))

	repo := NewPostgresRepositoryWithDB(mock)
	log := &InteractionLog{
		BookingID:     bookingID,
		Transcript:    `[{"speaker":"Agent","text":"Hi"}]`,
		Summary:       "Booking via AI Simulation",
		SeverityScore: 1,
	}
	if err := repo.SaveInteractionLog(context.Background(), log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.ID == uuid.Nil || log.CreatedAt.IsZero() {
		t.Errorf("expected populated id and created_at, got %+v", log)
	}
}

func bookingRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "clinic_id", "user_id", "patient_name", "patient_contact",
		"patient_email", "emergency_contact_name", "medical_history_summary",
		"symptoms", "appointment_time", "status", "queue_position",
		"estimated_wait_mins", "created_at", "name", "address",
	})
}

func TestPostgresListByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	userID := uuid.New()
	now := time.Now().UTC()
	pos := 2
	wait := 15
	rows := bookingRows().
		AddRow(uuid.New(), "clinic-1", &userID, "Jane Doe", "+15550001111",
			"jane@example.com", "", "", "chest pain", now.Add(30*time.Minute), "confirmed",
			&pos, &wait, now, "City Clinic", "1 Main St")
	mock.ExpectQuery("FROM bookings b").
		WithArgs(userID).
		WillReturnRows(rows)

	repo := NewPostgresRepositoryWithDB(mock)
	out, err := repo.ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(out))
	}
	if out[0].ClinicName != "City Clinic" {
		t.Errorf("expected joined clinic name, got %q", out[0].ClinicName)
	}
	if out[0].QueuePosition == nil || *out[0].QueuePosition != 2 {
		t.Errorf("expected queue position 2, got %v", out[0].QueuePosition)
	}
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery("FROM bookings b").
		WithArgs(id).
		WillReturnRows(bookingRows())

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.GetByID(context.Background(), id)
	if !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestPostgresGetLogNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	bookingID := uuid.New()
	mock.ExpectQuery("FROM interaction_logs").
		WithArgs(bookingID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "booking_id", "transcript", "summary", "severity_score", "created_at"}))

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.GetLog(context.Background(), bookingID)
	if !errors.Is(err, ErrLogNotFound) {
		t.Errorf("expected ErrLogNotFound, got %v", err)
	}
}

func TestPostgresUpdateQueuePosition(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	mock.ExpectExec("UPDATE bookings SET queue_position").
		WithArgs(id, 3, 25).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewPostgresRepositoryWithDB(mock)
	if err := repo.UpdateQueuePosition(context.Background(), id, 3, 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPostgresUpdateQueuePositionMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	mock.ExpectExec("UPDATE bookings SET queue_position").
		WithArgs(id, 3, 25).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewPostgresRepositoryWithDB(mock)
	err = repo.UpdateQueuePosition(context.Background(), id, 3, 25)
	if !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("expected ErrBookingNotFound, got %v", err)
	}
}
