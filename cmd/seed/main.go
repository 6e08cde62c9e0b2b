package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/medicare-hms/internal/auth"
	"github.com/hackgods/medicare-hms/internal/config"
	"github.com/hackgods/medicare-hms/internal/db"
	"github.com/hackgods/medicare-hms/internal/doctor"
	"github.com/hackgods/medicare-hms/internal/logging"
	"github.com/hackgods/medicare-hms/internal/user"
)

// seed provisions the first admin account and a directory of fake doctors.
// It is the only way to create an admin without already being one.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load error", "error", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.Storage != config.StoragePostgres {
		logger.Error("seed requires STORAGE=postgres")
		os.Exit(1)
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		logger.Error("ADMIN_EMAIL and ADMIN_PASSWORD are required")
		os.Exit(1)
	}
	doctorCount := getInt("SEED_DOCTORS", 20)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	userRepo := user.NewPgRepository(pool)
	users := user.NewService(userRepo, auth.NewHasher(cfg.BcryptCost), logger)
	doctors := doctor.NewService(doctor.NewPgRepository(pool), logger)

	admin, err := ensureAdmin(ctx, users, userRepo, adminEmail, adminPassword)
	if err != nil {
		logger.Error("provision admin", "error", err)
		os.Exit(1)
	}

	created, err := seedDoctors(ctx, doctors, admin, doctorCount, logger)
	if err != nil {
		logger.Error("seed doctors", "error", err, "created", created)
		os.Exit(1)
	}

	logger.Info("seed complete", "admin", admin.Email, "doctors_created", created)
}

func ensureAdmin(ctx context.Context, users *user.Service, repo user.Repository, email, password string) (*user.User, error) {
	admin, err := users.Provision(ctx, user.ProvisionInput{
		Email:     email,
		Password:  password,
		FirstName: getEnv("ADMIN_FIRST_NAME", "System"),
		LastName:  getEnv("ADMIN_LAST_NAME", "Administrator"),
		Role:      user.RoleAdmin,
	})
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, user.ErrEmailTaken) {
		return nil, err
	}

	// already provisioned on an earlier run
	existing, err := repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if !existing.IsAdmin() {
		return nil, errors.New("ADMIN_EMAIL belongs to a non-admin account")
	}
	return existing, nil
}

func seedDoctors(ctx context.Context, svc *doctor.Service, admin *user.User, count int, logger *slog.Logger) (int, error) {
	logger.Info("seeding doctors", "count", count)

	created := 0
	for attempts := 0; created < count && attempts < count*3; attempts++ {
		phone := gofakeit.Phone()
		experience := gofakeit.Number(1, 35)

		_, err := svc.Create(ctx, admin, doctor.CreateInput{
			FirstName:  gofakeit.FirstName(),
			LastName:   gofakeit.LastName(),
			Email:      gofakeit.Email(),
			Specialty:  gofakeit.RandomString(doctor.Specialties),
			Phone:      &phone,
			Experience: &experience,
		})
		if errors.Is(err, doctor.ErrEmailTaken) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
