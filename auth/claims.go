package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// SessionClaims is the JWT payload for a logged-in session. Premium status
// is carried for display only; authorization decisions reload the account
// from the store so a stale token cannot grant stale privileges.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	IsPremium bool   `json:"premium"`
}

// UserUUID parses the uid claim back into a uuid.
func (c *SessionClaims) UserUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, errors.CategoryAuth, "session has malformed user id").
			WithTextCode(TextCodeTokenInvalid)
	}
	return id, nil
}

// Expires returns the expiration instant, or the zero time when absent.
func (c *SessionClaims) Expires() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Issued returns the issue instant, or the zero time when absent.
func (c *SessionClaims) Issued() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}
