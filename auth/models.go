package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model. The password hash is excluded from JSON
// serialization; clients only ever see the sanitized projection.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	FirstName     string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName      string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	IsPremium     bool       `bun:"is_premium,notnull,default:false" json:"is_premium"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// SanitizedUser is the client-facing projection of a User record.
type SanitizedUser struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	IsPremium bool       `json:"isPremium"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Sanitize returns the projection safe to hand back to clients. The
// password hash never crosses this boundary.
func (u *User) Sanitize() *SanitizedUser {
	return &SanitizedUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsPremium: u.IsPremium,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Favorite associates a user with a trading symbol. The (user_id, symbol)
// pair is unique; records are created and destroyed, never updated.
type Favorite struct {
	bun.BaseModel `bun:"table:favorites,alias:fav"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Symbol        string     `bun:"symbol,notnull" json:"symbol"`
	CompanyName   string     `bun:"company_name,notnull" json:"company_name"`
	AddedAt       *time.Time `bun:"added_at,nullzero,default:current_timestamp" json:"added_at,omitempty"`
}
