package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes surfaced alongside error responses so clients can branch on
// the failure kind without parsing messages.
const (
	TextCodeValidation       = "VALIDATION_ERROR"
	TextCodeDuplicateEmail   = "DUPLICATE_EMAIL"
	TextCodeDuplicateFav     = "DUPLICATE_FAVORITE"
	TextCodeInvalidCreds     = "INVALID_CREDENTIALS"
	TextCodeIncorrectPass    = "INCORRECT_PASSWORD"
	TextCodeMissingToken     = "MISSING_TOKEN"
	TextCodeTokenInvalid     = "TOKEN_INVALID"
	TextCodeTokenExpired     = "TOKEN_EXPIRED"
	TextCodeUserNotFound     = "USER_NOT_FOUND"
	TextCodePremiumRequired  = "PREMIUM_REQUIRED"
	TextCodeQuotaExceeded    = "QUOTA_EXCEEDED"
	TextCodeFavoriteNotFound = "FAVORITE_NOT_FOUND"
	TextCodeEmptyPassword    = "EMPTY_PASSWORD"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords. The message must stay identical for both cases so the login
// endpoint cannot be used to enumerate registered addresses.
var ErrInvalidCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrIncorrectPassword is the password-confirmation failure on endpoints
// where the caller is already authenticated (change password, delete
// account). Distinct from ErrInvalidCredentials: there is no email to be
// generic about, so the message can name the actual problem.
var ErrIncorrectPassword = errors.New("password is incorrect", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeIncorrectPass)

// ErrDuplicateEmail is the uniqueness conflict on registration.
var ErrDuplicateEmail = errors.New("this email address is already registered", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode(TextCodeDuplicateEmail)

// ErrDuplicateFavorite is the uniqueness conflict on the (user, symbol) pair.
var ErrDuplicateFavorite = errors.New("this symbol is already in your favorites", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode(TextCodeDuplicateFav)

// ErrMissingToken is returned when no token could be extracted from the request.
var ErrMissingToken = errors.New("authentication required", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeMissingToken)

// ErrTokenInvalid covers malformed tokens and bad signatures.
var ErrTokenInvalid = errors.New("invalid authentication token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenInvalid)

// ErrTokenExpired is kept distinct from ErrTokenInvalid so expired sessions
// can be told to log in again instead of getting a generic auth error.
var ErrTokenExpired = errors.New("session expired, please log in again", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrUserNotFound is returned when a valid token references an account that
// no longer exists (deleted account with a still-live token).
var ErrUserNotFound = errors.New("user not found", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeUserNotFound)

// ErrPremiumRequired rejects non-premium access to premium-gated resources.
var ErrPremiumRequired = errors.New("premium subscription required", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodePremiumRequired).
	WithMetadata(map[string]any{"premium_required": true})

// ErrFavoriteNotFound is returned when removing a symbol that is not favorited.
var ErrFavoriteNotFound = errors.New("symbol not found in your favorites", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode(TextCodeFavoriteNotFound)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeEmptyPassword)

// NewQuotaExceededError builds the favorites-quota rejection carrying the
// current count and limit for the client to display.
func NewQuotaExceededError(current, limit int) *errors.Error {
	return errors.New("favorites limit reached for free accounts", errors.CategoryAuthz).
		WithCode(errors.CodeForbidden).
		WithTextCode(TextCodeQuotaExceeded).
		WithMetadata(map[string]any{
			"premium_required": true,
			"current_count":    current,
			"limit":            limit,
		})
}

// NewValidationError joins field-level validation messages into a single
// displayable error.
func NewValidationError(message string) *errors.Error {
	return errors.New(message, errors.CategoryValidation).
		WithCode(errors.CodeBadRequest).
		WithTextCode(TextCodeValidation)
}

// IsUniqueViolation reports whether err is a uniqueness-constraint failure
// from the underlying store. Matched by message because the sqlite shim does
// not expose a typed constraint error; the postgres variant is matched too.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
