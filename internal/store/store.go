// Package store defines the persistence capabilities the access core
// consumes and their gorm-backed implementations. Core logic is written only
// against UserStore and SessionStore so any backend (including the in-memory
// one used in tests) can satisfy them.
package store

import (
	"context"
	"errors"

	"paintgate/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row. For sessions this
	// includes rows that exist but have expired.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SoftDelete(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, skip, limit int, isActive *bool) ([]models.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	// GetByToken returns a session only if it exists and is live.
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	// GetLatestByUser returns the most recently created live session.
	GetLatestByUser(ctx context.Context, userID uint) (*models.Session, error)
	// Delete removes a session by token, reporting whether a row was removed.
	Delete(ctx context.Context, token string) (bool, error)
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
