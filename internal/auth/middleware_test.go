package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireUser(t *testing.T) {
	svc := newTestService()
	mw := NewMiddleware(svc)

	resp, err := svc.Signup(context.Background(), CredentialsRequest{Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)

	var seen *User
	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, resp.User.ID, seen.ID)
}

func TestRequireUserRejectsMissingToken(t *testing.T) {
	mw := NewMiddleware(newTestService())

	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAllowsAnonymous(t *testing.T) {
	mw := NewMiddleware(newTestService())

	var ok bool
	handler := mw.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, ok)
}

func TestOptionalAttachesUser(t *testing.T) {
	svc := newTestService()
	mw := NewMiddleware(svc)

	resp, err := svc.Signup(context.Background(), CredentialsRequest{Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)

	var id string
	handler := mw.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := UserIDFromContext(r.Context()); ok {
			id = uid.String()
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, resp.User.ID.String(), id)
}

func TestOptionalAcceptsQueryToken(t *testing.T) {
	svc := newTestService()
	mw := NewMiddleware(svc)

	resp, err := svc.Signup(context.Background(), CredentialsRequest{Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)

	var id string
	handler := mw.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := UserIDFromContext(r.Context()); ok {
			id = uid.String()
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/ws/bookings?token="+resp.Token, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, resp.User.ID.String(), id)
}

func TestExpiredToken(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, "test-secret", time.Nanosecond, nil)

	resp, err := svc.Signup(context.Background(), CredentialsRequest{Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = svc.Verify(context.Background(), resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
