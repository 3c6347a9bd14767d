package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"paintgate/internal/models"
)

// InMemoryUserStore is a map-backed UserStore. It exists so the core can be
// exercised without postgres; liveness and uniqueness semantics match the
// gorm implementation.
type InMemoryUserStore struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]models.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[uint]models.User)}
}

func (s *InMemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return ErrDuplicate
		}
	}
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = *user
	return nil
}

func (s *InMemoryUserStore) GetByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *InMemoryUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryUserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	for id, u := range s.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username || u.Email == user.Email {
			return ErrDuplicate
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *InMemoryUserStore) SoftDelete(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false, nil
	}
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return true, nil
}

func (s *InMemoryUserStore) List(_ context.Context, skip, limit int, isActive *bool) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []models.User
	for _, u := range s.users {
		if isActive != nil && u.IsActive != *isActive {
			continue
		}
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// InMemorySessionStore is a map-backed SessionStore keyed by opaque token.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	nextID   uint
	sessions map[string]models.Session
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[string]models.Session)}
}

func (s *InMemorySessionStore) Create(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.Token]; ok {
		return ErrDuplicate
	}
	s.nextID++
	session.ID = s.nextID
	s.sessions[session.Token] = *session
	return nil
}

func (s *InMemorySessionStore) GetByToken(_ context.Context, token string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok || !sess.Live(time.Now().UTC()) {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *InMemorySessionStore) GetLatestByUser(_ context.Context, userID uint) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := time.Now().UTC()
	var latest *models.Session
	for _, sess := range s.sessions {
		if sess.UserID != userID || !sess.Live(now) {
			continue
		}
		if latest == nil || sess.CreatedAt.After(latest.CreatedAt) {
			sess := sess
			latest = &sess
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (s *InMemorySessionStore) Delete(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return false, nil
	}
	delete(s.sessions, token)
	return true, nil
}

func (s *InMemorySessionStore) DeleteByUser(_ context.Context, userID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, token)
			n++
		}
	}
	return n, nil
}

func (s *InMemorySessionStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	var n int64
	for token, sess := range s.sessions {
		if !sess.Live(now) {
			delete(s.sessions, token)
			n++
		}
	}
	return n, nil
}

var (
	_ UserStore    = (*InMemoryUserStore)(nil)
	_ SessionStore = (*InMemorySessionStore)(nil)
)
