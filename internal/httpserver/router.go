// Package httpserver is the routing boundary over the access core: it
// extracts credentials from the cookie or bearer header, maps domain errors
// to statuses, and wires the account and admin surfaces.
package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"paintgate/internal/auth"
	"paintgate/internal/config"
	"paintgate/internal/models"
)

func NewRouter(svc *auth.Service, cfg *config.Config, lg *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP, chimw.Recoverer, requestLogger(lg))

	// signup/login run with optional auth: an authenticated caller is told
	// to log out first.
	r.Group(func(public chi.Router) {
		public.Use(authenticate(svc, false))
		public.Post("/v1/account/signup", signup(svc, lg))
		public.Post("/v1/account/login", login(svc, cfg, lg))
	})

	r.Group(func(protected chi.Router) {
		protected.Use(authenticate(svc, true))
		protected.Delete("/v1/account/logout", logout(svc))
		protected.Put("/v1/account/password", changePassword(svc))
		protected.Get("/v1/me", me())

		protected.Group(func(admin chi.Router) {
			admin.Use(requireRoles(models.RoleAdmin, models.RoleSuperAdmin))
			admin.Get("/v1/admin/users", listUsers(svc))
			admin.Post("/v1/admin/users", createUser(svc, lg))
			admin.Get("/v1/admin/users/{id}", getUser(svc))
			admin.Patch("/v1/admin/users/{id}", updateUser(svc))
			admin.Delete("/v1/admin/users/{id}", deleteUser(svc))
			admin.Post("/v1/admin/users/{id}/activate", userOp(func(r *http.Request, id uint) (*models.User, error) {
				return svc.ActivateUser(r.Context(), id)
			}))
			admin.Post("/v1/admin/users/{id}/deactivate", userOp(func(r *http.Request, id uint) (*models.User, error) {
				return svc.DeactivateUser(r.Context(), id)
			}))
			admin.Post("/v1/admin/users/{id}/grant-admin", userOp(func(r *http.Request, id uint) (*models.User, error) {
				return svc.GrantAdminRole(r.Context(), id)
			}))
			admin.Post("/v1/admin/users/{id}/revoke-admin", userOp(func(r *http.Request, id uint) (*models.User, error) {
				return svc.RevokeAdminRole(r.Context(), id)
			}))
			admin.Put("/v1/admin/users/{id}/password", setPassword(svc))
			admin.Delete("/v1/admin/users/{id}/sessions", revokeSessions(svc, lg))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
