package main

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"paintgate/internal/auth"
	"paintgate/internal/config"
	"paintgate/internal/httpserver"
	"paintgate/internal/logger"
	"paintgate/internal/models"
	"paintgate/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		lg := logger.New("info")
		lg.Fatalw("invalid configuration", "error", err)
	}
	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Session{}); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}

	users := store.NewUserStore(db)
	sessions := auth.NewSessionManager(store.NewSessionStore(db), cfg.TokenTTL())
	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL())
	svc := auth.NewService(users, sessions, codec, cfg.TokenTTL(), lg)

	seedAdmin(cfg, svc, lg)
	go sweepSessions(sessions, cfg.SessionSweepInterval, lg)

	router := httpserver.NewRouter(svc, cfg, lg)
	lg.Infow("listening", "port", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		lg.Fatalw("server stopped", "error", err)
	}
}

// seedAdmin registers the bootstrap admin account once, when configured and
// not already present.
func seedAdmin(cfg *config.Config, svc *auth.Service, lg *zap.SugaredLogger) {
	if cfg.SeedAdminUsername == "" || cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	u, err := svc.Register(ctx, auth.RegisterInput{
		Username: cfg.SeedAdminUsername,
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
		Roles:    []string{models.RoleUser, models.RoleAdmin, models.RoleSuperAdmin},
	})
	if err != nil {
		lg.Debugw("admin seed skipped", "error", err)
		return
	}
	lg.Infow("seeded admin user", "user_id", u.ID, "username", u.Username)
}

// sweepSessions garbage-collects expired session rows on an interval so
// request handling never pays for cleanup.
func sweepSessions(sessions *auth.SessionManager, interval time.Duration, lg *zap.SugaredLogger) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for range t.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := sessions.SweepExpired(ctx)
		cancel()
		if err != nil {
			lg.Warnw("session sweep failed", "error", err)
			continue
		}
		if n > 0 {
			lg.Infow("swept expired sessions", "count", n)
		}
	}
}
