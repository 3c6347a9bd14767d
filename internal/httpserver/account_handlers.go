package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"paintgate/internal/apperr"
	"paintgate/internal/auth"
	"paintgate/internal/config"
)

type signupReq struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles,omitempty"`
}

func signup(svc *auth.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserFrom(r.Context()); ok {
			respondError(w, apperr.Authorization("already authenticated; log out before registering a new account"))
			return
		}
		var req signupReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, apperr.Validation("invalid request body"))
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		u, err := svc.Register(r.Context(), auth.RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Roles:    req.Roles,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, u)
	}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func login(svc *auth.Service, cfg *config.Config, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserFrom(r.Context()); ok {
			respondError(w, apperr.Authorization("already authenticated; log out before logging in again"))
			return
		}
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, apperr.Validation("invalid request body"))
			return
		}
		res, err := svc.Login(r.Context(), strings.TrimSpace(req.Username), req.Password)
		if err != nil {
			respondError(w, err)
			return
		}
		setAccessCookie(w, res.Token, cfg.TokenTTLMinutes*60)
		respondJSON(w, http.StatusOK, map[string]any{
			"user":  res.User,
			"token": res.Token,
		})
	}
}

// logout revokes the session named by the request's own token and always
// clears the cookie, even when no session was found server-side.
func logout(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.Logout(r.Context(), tokenFromRequest(r))
		clearAccessCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

func me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := auth.UserFrom(r.Context())
		if !ok {
			respondError(w, apperr.Authentication("missing token"))
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}

type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func changePassword(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := auth.UserFrom(r.Context())
		if !ok {
			respondError(w, apperr.Authentication("missing token"))
			return
		}
		var req changePasswordReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, apperr.Validation("invalid request body"))
			return
		}
		updated, err := svc.ChangePassword(r.Context(), u.ID, req.CurrentPassword, req.NewPassword)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, updated)
	}
}
