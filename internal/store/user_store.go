package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"paintgate/internal/models"
)

// pgUniqueViolation is SQLSTATE 23505. Registration races the uniqueness
// pre-checks against the insert; the constraint violation at write time must
// degrade to the same duplicate outcome as the pre-check.
const pgUniqueViolation = "23505"

func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}

type GormUserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) Create(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translateErr(err))
	}
	return nil
}

func (s *GormUserStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

func (s *GormUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

func (s *GormUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}

func (s *GormUserStore) Update(ctx context.Context, user *models.User) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).
		Select("username", "email", "password_hash", "roles", "is_active", "updated_at").
		Updates(map[string]any{
			"username":      user.Username,
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"roles":         user.Roles,
			"is_active":     user.IsActive,
			"updated_at":    user.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update user: %w", translateErr(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks the user inactive. Rows are never physically removed.
func (s *GormUserStore) SoftDelete(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, fmt.Errorf("soft delete user: %w", translateErr(res.Error))
	}
	return res.RowsAffected > 0, nil
}

func (s *GormUserStore) List(ctx context.Context, skip, limit int, isActive *bool) ([]models.User, error) {
	q := s.db.WithContext(ctx).Model(&models.User{}).Order("created_at desc")
	if isActive != nil {
		q = q.Where("is_active = ?", *isActive)
	}
	var users []models.User
	if err := q.Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", translateErr(err))
	}
	return users, nil
}
