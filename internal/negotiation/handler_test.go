package negotiation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartStreamsTurnsAndResult(t *testing.T) {
	booker := &fakeBooker{}
	handler := NewHandler(newTestNegotiation(booker), nil)

	body := `{
		"clinic_id": "clinic-1",
		"clinic_name": "City Health",
		"doctor": "Dr. Available (Cardiology)",
		"profile": {"name": "Jane Doe", "age": 34, "gender": "female", "phone": "+15550001111", "email": "jane@example.com"},
		"symptoms": "chest pain"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/negotiations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Start(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	out := rec.Body.String()
	assert.Equal(t, 5, strings.Count(out, "event: turn\n"))
	assert.Equal(t, 1, strings.Count(out, "event: result\n"))
	assert.Contains(t, out, `"Appointment Confirmed"`)
	assert.Contains(t, out, `"status":"confirmed"`)
	assert.Equal(t, 1, booker.callCount())
}

func TestStartRejectsInvalidProfile(t *testing.T) {
	handler := NewHandler(newTestNegotiation(&fakeBooker{}), nil)

	body := `{"clinic_id": "clinic-1", "profile": {"name": "Jane"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/negotiations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Start(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartRequiresClinicID(t *testing.T) {
	handler := NewHandler(newTestNegotiation(&fakeBooker{}), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/negotiations", strings.NewReader(`{"profile": {}}`))
	rec := httptest.NewRecorder()
	handler.Start(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "clinic_id is required")
}

func TestStartRejectsBadJSON(t *testing.T) {
	handler := NewHandler(newTestNegotiation(&fakeBooker{}), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/negotiations", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	handler.Start(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartStreamsEvenWhenPersistenceFails(t *testing.T) {
	booker := &fakeBooker{err: errors.New("database down")}
	handler := NewHandler(newTestNegotiation(booker), nil)

	body := `{
		"clinic_id": "clinic-1",
		"profile": {"name": "Jane Doe", "age": 34, "gender": "female", "phone": "+15550001111", "email": "jane@example.com"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/negotiations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Start(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, `"status":"confirmed"`)
	assert.NotContains(t, out, "event: error")
}
