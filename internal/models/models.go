package models

import (
	"strings"
	"time"

	"paintgate/internal/apperr"
)

// Role labels a user may carry. Roles is never empty.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Roles        StringList `gorm:"type:jsonb;not null" json:"roles"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Validate enforces the entity invariants: at least one role, only known
// role labels, and a minimally plausible email.
func (u *User) Validate() error {
	if len(u.Roles) == 0 {
		return apperr.Validation("user must have at least one role")
	}
	for _, r := range u.Roles {
		if !ValidRole(r) {
			return apperr.Validationf("invalid role %q", r)
		}
	}
	at := strings.Index(u.Email, "@")
	if at <= 0 || !strings.Contains(u.Email[at+1:], ".") {
		return apperr.Validationf("invalid email %q", u.Email)
	}
	return nil
}

// Session is the server-side proof of a login. Token is the opaque lookup
// key carried inside the signed credential, never the credential itself.
// Rows are never mutated in place; a new login creates a new row.
type Session struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Live reports whether the session has not expired as of now. Evaluated on
// every lookup, never cached.
func (s *Session) Live(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
