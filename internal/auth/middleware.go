package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userContextKey).(*User)
	return u, ok
}

// UserIDFromContext returns the authenticated user's ID, if any.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return u.ID, true
}

// Middleware resolves bearer tokens into request-scoped users.
type Middleware struct {
	service *Service
}

// NewMiddleware creates auth middleware around service.
func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// Optional attaches the user to the context when a valid token is present
// and lets the request through either way. Guest flows stay anonymous.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := m.userFromRequest(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser rejects requests without a valid bearer token.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.userFromRequest(r)
		if err != nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}

func (m *Middleware) userFromRequest(r *http.Request) (*User, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		// Browsers cannot set headers on WebSocket connects, so the booking
		// feed passes the token as a query parameter instead.
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return nil, ErrInvalidToken
	}
	return m.service.Verify(r.Context(), token)
}
