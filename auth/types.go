package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// TokenService issues and verifies session tokens.
type TokenService interface {
	Issue(user *User) (string, error)
	Verify(raw string) (*SessionClaims, error)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*User, string, error)
	Register(ctx context.Context, input RegisterInput) (*User, string, error)
	UserFromClaims(ctx context.Context, claims *SessionClaims) (*User, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// NewDefaultLogger returns the printf logger used when no Logger is
// configured. scope tags each line so output from different layers stays
// attributable.
func NewDefaultLogger(scope string) Logger {
	return defLogger{scope: scope}
}

type defLogger struct {
	scope string
}

func (d defLogger) prefix() string {
	if d.scope == "" {
		return "AUTH"
	}
	return d.scope
}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] "+d.prefix()+" "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] "+d.prefix()+" "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] "+d.prefix()+" "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
