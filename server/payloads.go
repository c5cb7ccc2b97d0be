package server

import (
	"errors"
	"regexp"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	nameRe   = regexp.MustCompile(`^[\p{L} '-]+$`)
	symbolRe = regexp.MustCompile(`^[A-Z.]{1,10}$`)
)

// RegisterPayload is the account creation body
type RegisterPayload struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}

// Validate will validate the payload
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 128), validation.By(ValidatePasswordStrength)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
		validation.Field(&r.FirstName, validation.Required, validation.Length(2, 50), validation.Match(nameRe)),
		validation.Field(&r.LastName, validation.Required, validation.Length(2, 50), validation.Match(nameRe)),
	)
}

// LoginPayload is the credential pair
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will validate the payload
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// ProfileUpdatePayload carries the editable account fields
type ProfileUpdatePayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Validate will validate the payload
func (r ProfileUpdatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(2, 50), validation.Match(nameRe)),
		validation.Field(&r.LastName, validation.Required, validation.Length(2, 50), validation.Match(nameRe)),
	)
}

// ChangePasswordPayload rotates the credential
type ChangePasswordPayload struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate will validate the payload
func (r ChangePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 128), validation.By(ValidatePasswordStrength)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.NewPassword)),
		),
	)
}

// DeleteAccountPayload confirms the destructive action with the password
type DeleteAccountPayload struct {
	Password string `json:"password"`
}

// Validate will validate the payload
func (r DeleteAccountPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required),
	)
}

// FavoritePayload adds a symbol to the watch list
type FavoritePayload struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
}

// Validate will validate the payload. Symbols arrive already uppercased by
// the handler, so the pattern only needs the canonical form.
func (r FavoritePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Symbol, validation.Required, validation.Match(symbolRe)),
		validation.Field(&r.CompanyName, validation.Required, validation.Length(1, 100)),
	)
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

// ValidatePasswordStrength requires at least one letter and one digit.
func ValidatePasswordStrength(value any) error {
	s, _ := value.(string)

	var hasLetter, hasDigit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return errors.New("must contain at least one letter and one number")
	}

	return nil
}
