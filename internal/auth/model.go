package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a registered account. The password hash never leaves this package.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// CredentialsRequest is the request body for signup and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the credential fields.
func (r *CredentialsRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return ErrMissingEmail
	}
	if len(r.Password) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// TokenResponse is returned on successful signup/login.
type TokenResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
