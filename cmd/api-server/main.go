package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackgods/medicare-hms/internal/api"
	"github.com/hackgods/medicare-hms/internal/appointment"
	"github.com/hackgods/medicare-hms/internal/auth"
	"github.com/hackgods/medicare-hms/internal/config"
	"github.com/hackgods/medicare-hms/internal/dashboard"
	"github.com/hackgods/medicare-hms/internal/db"
	"github.com/hackgods/medicare-hms/internal/doctor"
	"github.com/hackgods/medicare-hms/internal/logging"
	"github.com/hackgods/medicare-hms/internal/memstore"
	"github.com/hackgods/medicare-hms/internal/message"
	redisclient "github.com/hackgods/medicare-hms/internal/redis"
	"github.com/hackgods/medicare-hms/internal/user"
)

var version = "dev"

// repositories is the storage backend chosen at startup.
type repositories struct {
	users        user.Repository
	doctors      doctor.Repository
	appointments appointment.Repository
	messages     message.Repository
	revocations  auth.Revocations
	checks       []api.HealthCheck
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load error", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	logger.Info("api-server starting up", "env", cfg.Env, "http_port", cfg.HTTPPort, "storage", cfg.Storage, "version", version)
	if cfg.UsingDevSecret() {
		logger.Warn("JWT_SECRET not set, using insecure development secret")
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openStorage(rootCtx, cfg, logger)
	if err != nil {
		logger.Error("storage setup failed", "error", err)
		os.Exit(1)
	}
	defer repos.close()

	hasher := auth.NewHasher(cfg.BcryptCost)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL)

	userSvc := user.NewService(repos.users, hasher, logger)
	doctorSvc := doctor.NewService(repos.doctors, logger)
	apptSvc := appointment.NewService(repos.appointments, doctorSvc, logger)
	msgSvc := message.NewService(repos.messages, logger)
	dashSvc := dashboard.NewService(repos.appointments, repos.doctors, repos.messages)

	router := api.NewRouter(api.RouterConfig{
		Users:        userSvc,
		Doctors:      doctorSvc,
		Appointments: apptSvc,
		Messages:     msgSvc,
		Dashboard:    dashSvc,
		Tokens:       issuer,
		Revocations:  repos.revocations,
		CookieSecure: cfg.CookieSecure,
		TrustProxy:   cfg.TrustProxy,
		AuthLimiter:  api.NewRateLimiter(cfg.AuthRateRPS, cfg.AuthRateBurst),
		Logger:       logger,
		HealthChecks: repos.checks,
		Env:          cfg.Env,
		Version:      version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("http server error", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}

	logger.Info("api-server stopped")
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (*repositories, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		store := memstore.New()
		return &repositories{
			users:        store.Users(),
			doctors:      store.Doctors(),
			appointments: store.Appointments(),
			messages:     store.Messages(),
			revocations:  store.Revocations(),
			close:        func() {},
		}, nil
	}

	pgCtx, cancelPg := context.WithTimeout(ctx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		return nil, err
	}
	logger.Info("connected to Postgres")

	migrateCtx, cancelMigrate := context.WithTimeout(ctx, 30*time.Second)
	err = db.Migrate(migrateCtx, pgPool)
	cancelMigrate()
	if err != nil {
		pgPool.Close()
		return nil, err
	}
	logger.Info("migrations applied")

	rdb, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		pgPool.Close()
		return nil, err
	}
	logger.Info("connected to Redis")

	return &repositories{
		users:        user.NewPgRepository(pgPool),
		doctors:      doctor.NewPgRepository(pgPool),
		appointments: appointment.NewPgRepository(pgPool),
		messages:     message.NewPgRepository(pgPool),
		revocations:  redisclient.NewRevocations(rdb),
		checks: []api.HealthCheck{
			{Name: "postgres", Critical: true, Ping: pgPool.Ping},
			{Name: "redis", Critical: true, Ping: redisclient.Ping(rdb)},
		},
		close: func() {
			if err := rdb.Close(); err != nil {
				logger.Error("error closing redis", "error", err)
			}
			pgPool.Close()
		},
	}, nil
}
