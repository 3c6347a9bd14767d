// Package auth implements the access core: credential hashing, session
// management, signed-token issuance and validation, identity resolution, and
// role-based authorization. Persistence is consumed through the store
// interfaces; nothing here holds mutable state across calls beyond the store
// handles.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"paintgate/internal/apperr"
	"paintgate/internal/models"
	"paintgate/internal/store"
)

// ErrInvalidCredentials is the single login failure outcome. Unknown
// username, unknown email, inactive account, and wrong password are
// indistinguishable to the caller.
var ErrInvalidCredentials = apperr.Authentication("invalid credentials")

// Service orchestrates login, token-to-identity resolution, and the account
// lifecycle operations.
type Service struct {
	users    store.UserStore
	sessions *SessionManager
	codec    *TokenCodec
	ttl      time.Duration
	lg       *zap.SugaredLogger
}

func NewService(users store.UserStore, sessions *SessionManager, codec *TokenCodec, ttl time.Duration, lg *zap.SugaredLogger) *Service {
	return &Service{users: users, sessions: sessions, codec: codec, ttl: ttl, lg: lg}
}

// Sessions exposes the session manager for maintenance tasks (expiry sweep).
func (s *Service) Sessions() *SessionManager { return s.sessions }

// LoginResult is the triple returned by a successful login.
type LoginResult struct {
	User    *models.User
	Session *models.Session
	Token   string
}

// Login authenticates by username, falling back to email, then creates a
// session and issues a token bound to it. If token issuance fails the
// session is removed so no partial session stays reachable.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		u, err = s.users.GetByEmail(ctx, username)
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !VerifyPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, u, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	token, err := s.codec.Issue(u, sess.Token, s.ttl)
	if err != nil {
		if _, delErr := s.sessions.Delete(ctx, sess.Token); delErr != nil {
			s.lg.Errorw("rollback session after token failure", "user_id", u.ID, "error", delErr)
		}
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.lg.Infow("user logged in", "user_id", u.ID, "username", u.Username)
	return &LoginResult{User: u, Session: sess, Token: token}, nil
}

// ResolveToken walks the validation chain: decode, session linkage present,
// session live, user exists, user active, session owner matches the claimed
// subject. It returns the fresh user row plus the claim snapshot; each
// failure collapses to an authentication error.
func (s *Service) ResolveToken(ctx context.Context, token string) (*models.User, Claims, error) {
	if token == "" {
		return nil, Claims{}, apperr.Authentication("missing token")
	}
	claims, err := s.codec.Decode(token)
	if err != nil {
		return nil, Claims{}, err
	}
	if claims.SessionToken == "" {
		return nil, Claims{}, apperr.Authentication("malformed token")
	}
	sess, err := s.sessions.GetByToken(ctx, claims.SessionToken)
	if errors.Is(err, store.ErrNotFound) {
		return nil, Claims{}, apperr.Authentication("session invalid or expired")
	}
	if err != nil {
		return nil, Claims{}, fmt.Errorf("look up session: %w", err)
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, Claims{}, apperr.Authentication("user not found")
	}
	if err != nil {
		return nil, Claims{}, fmt.Errorf("look up user: %w", err)
	}
	if !u.IsActive {
		return nil, Claims{}, apperr.Authentication("user inactive")
	}
	if sess.UserID != u.ID {
		return nil, Claims{}, apperr.Authentication("session mismatch")
	}
	return u, claims, nil
}

// Logout revokes the session referenced by the token. Decode failures and
// absent sessions are swallowed: logout is idempotent and never fails for
// the caller.
func (s *Service) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	claims, err := s.codec.Decode(token)
	if err != nil || claims.SessionToken == "" {
		return
	}
	removed, err := s.sessions.Delete(ctx, claims.SessionToken)
	if err != nil {
		s.lg.Warnw("delete session on logout", "error", err)
		return
	}
	if removed {
		s.lg.Infow("user logged out", "user_id", claims.UserID)
	}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Roles    []string
}

// Register creates a user after checking username and email uniqueness
// independently. The store's uniqueness constraint backstops the race
// between check and insert.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation("username, email and password are required")
	}
	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, apperr.Validationf("username %q is already in use", in.Username)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Validationf("email %q is already in use", in.Email)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	roles := in.Roles
	if len(roles) == 0 {
		roles = []string{models.RoleUser}
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	u := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Roles:        roles,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Validation("username or email is already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.lg.Infow("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// UpdateUserInput is a partial administrative update. Nil fields are left
// untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Roles    []string
}

// UpdateUser applies a partial update, re-validating uniqueness only for
// fields that actually changed.
func (s *Service) UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Username != nil && *in.Username != u.Username {
		if other, err := s.users.GetByUsername(ctx, *in.Username); err == nil && other.ID != id {
			return nil, apperr.Validationf("username %q is already in use", *in.Username)
		} else if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("check username: %w", err)
		}
		u.Username = *in.Username
	}
	if in.Email != nil && *in.Email != u.Email {
		if other, err := s.users.GetByEmail(ctx, *in.Email); err == nil && other.ID != id {
			return nil, apperr.Validationf("email %q is already in use", *in.Email)
		} else if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
		u.Email = *in.Email
	}
	if in.Roles != nil {
		u.Roles = in.Roles
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return s.saveUser(ctx, u)
}

func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.getUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, skip, limit int, isActive *bool) ([]models.User, error) {
	return s.users.List(ctx, skip, limit, isActive)
}

// DeleteUser soft-deletes: the row stays, is_active goes false. Outstanding
// sessions are not revoked here; RevokeUserSessions is the distinct lever
// for that.
func (s *Service) DeleteUser(ctx context.Context, id uint) error {
	found, err := s.users.SoftDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	if !found {
		return apperr.NotFound("user not found")
	}
	s.lg.Infow("user deactivated", "user_id", id)
	return nil
}

// ActivateUser is a no-op when the user is already active.
func (s *Service) ActivateUser(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsActive {
		return u, nil
	}
	u.IsActive = true
	return s.saveUser(ctx, u)
}

// DeactivateUser is a no-op when the user is already inactive. It does not
// touch the user's sessions.
func (s *Service) DeactivateUser(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return u, nil
	}
	u.IsActive = false
	return s.saveUser(ctx, u)
}

// GrantAdminRole is idempotent.
func (s *Service) GrantAdminRole(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.HasRole(models.RoleAdmin) {
		return u, nil
	}
	u.Roles = append(u.Roles, models.RoleAdmin)
	return s.saveUser(ctx, u)
}

// RevokeAdminRole removes the admin role. Revoking the only role is a
// validation error and leaves the stored set unchanged.
func (s *Service) RevokeAdminRole(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.HasRole(models.RoleAdmin) {
		return u, nil
	}
	var remaining models.StringList
	for _, r := range u.Roles {
		if r != models.RoleAdmin {
			remaining = append(remaining, r)
		}
	}
	if len(remaining) == 0 {
		return nil, apperr.Validation("cannot revoke admin role: user must keep at least one role")
	}
	u.Roles = remaining
	return s.saveUser(ctx, u)
}

// ChangePassword is the self-service path; it requires re-proof of the
// current password.
func (s *Service) ChangePassword(ctx context.Context, id uint, currentPassword, newPassword string) (*models.User, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(currentPassword, u.PasswordHash) {
		return nil, apperr.Validation("current password is incorrect")
	}
	return s.setPassword(ctx, u, newPassword)
}

// SetPassword is the administrative path; no re-proof required.
func (s *Service) SetPassword(ctx context.Context, id uint, newPassword string) (*models.User, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.setPassword(ctx, u, newPassword)
}

// RevokeUserSessions deletes every session for the user, invalidating all
// outstanding tokens immediately.
func (s *Service) RevokeUserSessions(ctx context.Context, id uint) (int64, error) {
	if _, err := s.getUser(ctx, id); err != nil {
		return 0, err
	}
	n, err := s.sessions.DeleteAllForUser(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("revoke sessions: %w", err)
	}
	s.lg.Infow("revoked user sessions", "user_id", id, "count", n)
	return n, nil
}

func (s *Service) setPassword(ctx context.Context, u *models.User, newPassword string) (*models.User, error) {
	if newPassword == "" {
		return nil, apperr.Validation("new password is required")
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	return s.saveUser(ctx, u)
}

func (s *Service) getUser(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	return u, nil
}

func (s *Service) saveUser(ctx context.Context, u *models.User) (*models.User, error) {
	u.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, apperr.NotFound("user not found")
		case errors.Is(err, store.ErrDuplicate):
			return nil, apperr.Validation("username or email is already in use")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}
