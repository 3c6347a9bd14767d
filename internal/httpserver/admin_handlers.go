package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"paintgate/internal/apperr"
	"paintgate/internal/auth"
	"paintgate/internal/models"
)

func userID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid user id")
	}
	return uint(id), nil
}

func listUsers(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		skip, _ := strconv.Atoi(q.Get("skip"))
		limit, err := strconv.Atoi(q.Get("limit"))
		if err != nil || limit <= 0 {
			limit = 100
		}
		var active *bool
		if v := q.Get("is_active"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				respondError(w, apperr.Validation("invalid is_active filter"))
				return
			}
			active = &b
		}
		users, err := svc.ListUsers(r.Context(), skip, limit, active)
		if err != nil {
			respondError(w, err)
			return
		}
		if users == nil {
			users = []models.User{}
		}
		respondJSON(w, http.StatusOK, users)
	}
}

func createUser(svc *auth.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, apperr.Validation("invalid request body"))
			return
		}
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
		admin, _ := auth.UserFrom(r.Context())
		lg.Infow("admin created user", "admin_id", admin.ID, "user_id", u.ID)
		respondJSON(w, http.StatusCreated, u)
	}
}

func getUser(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		u, err := svc.GetUser(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}

type updateUserReq struct {
	Username *string  `json:"username"`
	Email    *string  `json:"email"`
	Roles    []string `json:"roles"`
}

func updateUser(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		var req updateUserReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, apperr.Validation("invalid request body"))
			return
		}
		u, err := svc.UpdateUser(r.Context(), id, auth.UpdateUserInput{
			Username: req.Username,
			Email:    req.Email,
			Roles:    req.Roles,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}

func deleteUser(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		if err := svc.DeleteUser(r.Context(), id); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// userOp wraps the one-argument lifecycle operations that all return the
// updated user.
func userOp(op func(r *http.Request, id uint) (*models.User, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		u, err := op(r, id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}

type setPasswordReq struct {
	Password string `json:"password"`
}

func setPassword(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		var req setPasswordReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, apperr.Validation("invalid request body"))
			return
		}
		u, err := svc.SetPassword(r.Context(), id, req.Password)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}

func revokeSessions(svc *auth.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userID(r)
		if err != nil {
			respondError(w, err)
			return
		}
		n, err := svc.RevokeUserSessions(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]int64{"revoked": n})
	}
}
