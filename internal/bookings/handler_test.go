package bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickcare/quickcare-backend/internal/auth"
)

func testHandlerSetup(t *testing.T) (*InMemoryRepository, *Service, http.Handler, *auth.Service) {
	t.Helper()
	repo := NewInMemoryRepository()
	svc := NewService(repo, nil, nil, nil, nil)
	handler := NewHandler(repo, svc, nil)

	authSvc := auth.NewService(auth.NewInMemoryRepository(), "test-secret", time.Hour, nil)
	mw := auth.NewMiddleware(authSvc)

	r := chi.NewRouter()
	r.Use(mw.Optional)
	r.Get("/api/bookings", handler.List)
	r.Get("/api/bookings/{id}", handler.Get)
	r.Get("/api/bookings/{id}/log", handler.GetLog)
	r.Patch("/api/bookings/{id}/queue", handler.UpdateQueue)
	return repo, svc, r, authSvc
}

func signupUser(t *testing.T, authSvc *auth.Service) (*uuid.UUID, string) {
	t.Helper()
	resp, err := authSvc.Signup(context.Background(), auth.CredentialsRequest{
		Email:    "jane@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	return &resp.User.ID, resp.Token
}

func TestListRequiresAuth(t *testing.T) {
	_, _, router, _ := testHandlerSetup(t)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListReturnsOwnBookings(t *testing.T) {
	_, svc, router, authSvc := testHandlerSetup(t)
	userID, token := signupUser(t, authSvc)

	params := confirmParams(userID)
	_, err := svc.Confirm(context.Background(), params)
	require.NoError(t, err)
	_, err = svc.Confirm(context.Background(), confirmParams(nil)) // guest booking
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), `"clinic_id"`))
}

func TestGetGuestBooking(t *testing.T) {
	_, svc, router, _ := testHandlerSetup(t)

	booking, err := svc.Confirm(context.Background(), confirmParams(nil))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+booking.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), booking.ID.String())
}

func TestGetHidesForeignBooking(t *testing.T) {
	_, svc, router, authSvc := testHandlerSetup(t)
	userID, _ := signupUser(t, authSvc)

	booking, err := svc.Confirm(context.Background(), confirmParams(userID))
	require.NoError(t, err)

	// No token at all: owned bookings are invisible.
	req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+booking.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetLog(t *testing.T) {
	_, svc, router, _ := testHandlerSetup(t)

	booking, err := svc.Confirm(context.Background(), confirmParams(nil))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+booking.ID.String()+"/log", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Booking via AI Simulation")
}

func TestGetLogMissing(t *testing.T) {
	repo, _, router, _ := testHandlerSetup(t)

	booking, err := repo.CreateBooking(context.Background(), confirmParams(nil).Booking)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+booking.ID.String()+"/log", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetInvalidID(t *testing.T) {
	_, _, router, _ := testHandlerSetup(t)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateQueueEndpoint(t *testing.T) {
	_, svc, router, _ := testHandlerSetup(t)

	booking, err := svc.Confirm(context.Background(), confirmParams(nil))
	require.NoError(t, err)

	body := `{"position": 2, "estimated_wait_mins": 15}`
	req := httptest.NewRequest(http.MethodPatch, "/api/bookings/"+booking.ID.String()+"/queue", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"queue_position":2`)
}

func TestUpdateQueueRejectsNegative(t *testing.T) {
	_, svc, router, _ := testHandlerSetup(t)

	booking, err := svc.Confirm(context.Background(), confirmParams(nil))
	require.NoError(t, err)

	body := `{"position": -1, "estimated_wait_mins": 15}`
	req := httptest.NewRequest(http.MethodPatch, "/api/bookings/"+booking.ID.String()+"/queue", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
