package negotiation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickcare/quickcare-backend/internal/bookings"
)

type fakeBooker struct {
	mu      sync.Mutex
	calls   []bookings.ConfirmParams
	booking *bookings.Booking
	err     error
}

func (f *fakeBooker) Confirm(_ context.Context, params bookings.ConfirmParams) (*bookings.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.booking, nil
}

func (f *fakeBooker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestNegotiation(booker Booker) *Service {
	engine := NewEngine(&stubLLM{err: errors.New("provider down")}, nil, WithDelays(0, 0))
	return NewService(engine, booker, nil, nil, nil)
}

func TestNegotiateConfirmsAndPersistsOnce(t *testing.T) {
	booker := &fakeBooker{booking: &bookings.Booking{ClinicID: "clinic-1", Status: bookings.StatusConfirmed}}
	svc := newTestNegotiation(booker)

	var streamed []Turn
	result, err := svc.Negotiate(context.Background(), Params{
		Target:   testTarget(),
		Profile:  testProfile(),
		Symptoms: "chest pain",
		Summary:  "Possible cardiac issue.",
	}, func(turn Turn) {
		streamed = append(streamed, turn)
	})

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, result.Status)
	assert.Len(t, result.Transcript, 4, "terminal turn stays out of the transcript")
	assert.Len(t, streamed, 5, "observer sees every turn including the confirm")
	require.NotNil(t, result.Booking)
	assert.Equal(t, "clinic-1", result.Booking.ClinicID)
	assert.Equal(t, 1, booker.callCount())
}

func TestNegotiatePersistParams(t *testing.T) {
	booker := &fakeBooker{booking: &bookings.Booking{}}
	svc := newTestNegotiation(booker)

	before := time.Now().UTC()
	_, err := svc.Negotiate(context.Background(), Params{
		Target:  testTarget(),
		Profile: testProfile(),
	}, nil)
	require.NoError(t, err)

	require.Equal(t, 1, booker.callCount())
	params := booker.calls[0]
	assert.Equal(t, "clinic-1", params.Booking.ClinicID)
	assert.Equal(t, "Jane Doe", params.Booking.PatientName)
	assert.Equal(t, "Not specified", params.Booking.Symptoms)
	assert.Equal(t, "Booking via AI Simulation", params.Summary)
	assert.Equal(t, 1, params.SeverityScore)
	assert.NotEqual(t, "[]", params.Transcript)
	assert.WithinDuration(t, before.Add(30*time.Minute), params.Booking.AppointmentTime, 5*time.Second)
}

func TestNegotiateConfirmsEvenWhenPersistenceFails(t *testing.T) {
	booker := &fakeBooker{err: errors.New("database down")}
	svc := newTestNegotiation(booker)

	result, err := svc.Negotiate(context.Background(), Params{
		Target:  testTarget(),
		Profile: testProfile(),
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, result.Status)
	assert.Nil(t, result.Booking)
	assert.Equal(t, 1, booker.callCount())
}

func TestNegotiateCanceledRunPersistsNothing(t *testing.T) {
	booker := &fakeBooker{booking: &bookings.Booking{}}
	engine := NewEngine(&stubLLM{err: errors.New("provider down")}, nil, WithDelays(30*time.Millisecond, 30*time.Millisecond))
	svc := NewService(engine, booker, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	result, err := svc.Negotiate(ctx, Params{
		Target:  testTarget(),
		Profile: testProfile(),
	}, func(Turn) {
		cancel()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotEqual(t, StatusConfirmed, result.Status)
	assert.Equal(t, 0, booker.callCount())
}
