package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"paintgate/internal/models"
)

type GormSessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *GormSessionStore {
	return &GormSessionStore{db: db}
}

func (s *GormSessionStore) Create(ctx context.Context, session *models.Session) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("create session: %w", translateErr(err))
	}
	return nil
}

// GetByToken filters liveness in the query: an expired row is absent to the
// caller.
func (s *GormSessionStore) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now().UTC()).
		First(&sess).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &sess, nil
}

func (s *GormSessionStore) GetLatestByUser(ctx context.Context, userID uint) (*models.Session, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, time.Now().UTC()).
		Order("created_at desc").
		First(&sess).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &sess, nil
}

func (s *GormSessionStore) Delete(ctx context.Context, token string) (bool, error) {
	res := s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{})
	if res.Error != nil {
		return false, fmt.Errorf("delete session: %w", translateErr(res.Error))
	}
	return res.RowsAffected > 0, nil
}

func (s *GormSessionStore) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete user sessions: %w", translateErr(res.Error))
	}
	return res.RowsAffected, nil
}

func (s *GormSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", time.Now().UTC()).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", translateErr(res.Error))
	}
	return res.RowsAffected, nil
}

// compile-time interface checks
var (
	_ UserStore    = (*GormUserStore)(nil)
	_ SessionStore = (*GormSessionStore)(nil)
)
