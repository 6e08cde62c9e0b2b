package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/medicare-hms/internal/appointment"
	"github.com/hackgods/medicare-hms/internal/logging"
)

// simulate drives a running api-server with concurrent patients booking and
// messaging while one admin triages, then prints a latency report.

type SimConfig struct {
	APIBaseURL    string
	Duration      time.Duration
	Workers       int
	BookingRatio  float64
	MessageRatio  float64
	ReadRatio     float64
	AdminEmail    string
	AdminPassword string
}

const (
	opRegister  = "register"
	opBooking   = "booking"
	opMessage   = "message"
	opListOwn   = "list own"
	opTriage    = "triage"
	opDashboard = "dashboard"
)

type Simulator struct {
	config  SimConfig
	logger  *slog.Logger
	doctors []string
	rec     *recorder
}

func main() {
	logger := logging.NewLogger(getEnv("LOG_LEVEL", "info"), getEnv("LOG_FORMAT", "text"))

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger.Info("simulator starting",
		"duration", cfg.Duration, "workers", cfg.Workers,
		"booking", cfg.BookingRatio, "message", cfg.MessageRatio, "read", cfg.ReadRatio)

	sim := &Simulator{
		config: cfg,
		logger: logger,
		rec:    newRecorder(opRegister, opBooking, opMessage, opListOwn, opTriage, opDashboard),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	doctors, err := sim.loadDoctors(ctx)
	cancel()
	if err != nil {
		logger.Error("load doctors", "error", err)
		os.Exit(1)
	}
	sim.doctors = doctors
	logger.Info("loaded doctors", "count", len(doctors))

	sim.Run()
	writeReport(os.Stdout, cfg, sim.rec.summaries())
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:    strings.TrimRight(getEnv("SIM_API_BASE_URL", "http://localhost:8080"), "/"),
		Duration:      getDuration("SIM_DURATION", 30*time.Second),
		Workers:       getInt("SIM_WORKERS", 10),
		BookingRatio:  getFloat("SIM_BOOKING_RATIO", 0.4),
		MessageRatio:  getFloat("SIM_MESSAGE_RATIO", 0.2),
		ReadRatio:     getFloat("SIM_READ_RATIO", 0.4),
		AdminEmail:    os.Getenv("SIM_ADMIN_EMAIL"),
		AdminPassword: os.Getenv("SIM_ADMIN_PASSWORD"),
	}

	if sum := cfg.BookingRatio + cfg.MessageRatio + cfg.ReadRatio; sum > 0 {
		cfg.BookingRatio /= sum
		cfg.MessageRatio /= sum
		cfg.ReadRatio /= sum
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.Workers <= 0 {
		return errors.New("SIM_WORKERS must be positive")
	}
	if cfg.Duration <= 0 {
		return errors.New("SIM_DURATION must be positive")
	}
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return errors.New("SIM_ADMIN_EMAIL and SIM_ADMIN_PASSWORD are required")
	}
	return nil
}

// session is one signed-in API client with its own cookie jar.
type session struct {
	base   string
	client *http.Client
}

func newSession(base string) *session {
	jar, _ := cookiejar.New(nil)
	return &session{
		base:   base,
		client: &http.Client{Timeout: 10 * time.Second, Jar: jar},
	}
}

// do sends a JSON request and decodes a JSON response into out when non-nil.
func (s *session) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.base+path, rdr)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode, nil
}

func (s *Simulator) loadDoctors(ctx context.Context) ([]string, error) {
	var doctors []struct {
		ID string `json:"id"`
	}
	status, err := newSession(s.config.APIBaseURL).do(ctx, http.MethodGet, "/api/doctors", nil, &doctors)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("GET /api/doctors returned %d", status)
	}
	if len(doctors) == 0 {
		return nil, errors.New("no active doctors, run cmd/seed first")
	}

	ids := make([]string, 0, len(doctors))
	for _, d := range doctors {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	s.logger.Info("starting simulation", "duration", s.config.Duration, "workers", s.config.Workers)

	var wg sync.WaitGroup
	for id := range s.config.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.patient(ctx, id)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.admin(ctx)
	}()

	wg.Wait()
	s.logger.Info("simulation complete")
}

func (s *Simulator) patient(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))
	sess := newSession(s.config.APIBaseURL)

	start := time.Now()
	status, err := sess.do(ctx, http.MethodPost, "/api/register", map[string]string{
		"email":     fmt.Sprintf("sim-%d-%s", workerID, gofakeit.Email()),
		"password":  gofakeit.Password(true, true, true, false, false, 12),
		"firstName": gofakeit.FirstName(),
		"lastName":  gofakeit.LastName(),
	}, nil)
	s.rec.observe(opRegister, start, classify(status, err, http.StatusCreated, http.StatusTooManyRequests))
	if err != nil || status != http.StatusCreated {
		s.logger.Warn("patient registration failed", "worker", workerID, "status", status, "error", err)
		return
	}

	for ctx.Err() == nil {
		r := rng.Float64()
		switch {
		case r < s.config.BookingRatio:
			s.doBooking(ctx, sess, rng)
		case r < s.config.BookingRatio+s.config.MessageRatio:
			s.doMessage(ctx, sess)
		default:
			s.doListOwn(ctx, sess)
		}
	}
}

func (s *Simulator) doBooking(ctx context.Context, sess *session, rng *rand.Rand) {
	date := time.Now().AddDate(0, 0, 1+rng.Intn(60)).Format(appointment.DateLayout)
	body := map[string]string{
		"doctorId": s.doctors[rng.Intn(len(s.doctors))],
		"date":     date,
		"time":     appointment.TimeSlots[rng.Intn(len(appointment.TimeSlots))],
		"reason":   gofakeit.Sentence(6),
	}

	start := time.Now()
	status, err := sess.do(ctx, http.MethodPost, "/api/appointments", body, nil)
	s.rec.observe(opBooking, start, classify(status, err, http.StatusCreated))
}

func (s *Simulator) doMessage(ctx context.Context, sess *session) {
	body := map[string]string{
		"subject": gofakeit.Sentence(3),
		"content": gofakeit.Paragraph(1, 3, 12, " "),
	}

	start := time.Now()
	status, err := sess.do(ctx, http.MethodPost, "/api/messages", body, nil)
	s.rec.observe(opMessage, start, classify(status, err, http.StatusCreated))
}

func (s *Simulator) doListOwn(ctx context.Context, sess *session) {
	start := time.Now()
	status, err := sess.do(ctx, http.MethodGet, "/api/appointments", nil, nil)
	s.rec.observe(opListOwn, start, classify(status, err, http.StatusOK))
}

// admin signs in once and then alternates between triaging pending
// appointments and reading the dashboard.
func (s *Simulator) admin(ctx context.Context) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sess := newSession(s.config.APIBaseURL)

	status, err := sess.do(ctx, http.MethodPost, "/api/login", map[string]string{
		"email":    s.config.AdminEmail,
		"password": s.config.AdminPassword,
	}, nil)
	if err != nil || status != http.StatusOK {
		s.logger.Error("admin login failed", "status", status, "error", err)
		return
	}

	for ctx.Err() == nil {
		if rng.Intn(4) == 0 {
			start := time.Now()
			status, err := sess.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, nil)
			s.rec.observe(opDashboard, start, classify(status, err, http.StatusOK))
			continue
		}
		s.doTriage(ctx, sess, rng)
	}
}

func (s *Simulator) doTriage(ctx context.Context, sess *session, rng *rand.Rand) {
	var pending []struct {
		ID string `json:"id"`
	}
	status, err := sess.do(ctx, http.MethodGet, "/api/appointments?status=pending", nil, &pending)
	if err != nil || status != http.StatusOK || len(pending) == 0 {
		select {
		case <-ctx.Done():
		case <-time.After(100 * time.Millisecond):
		}
		return
	}

	target := string(appointment.StatusAccepted)
	if rng.Intn(3) == 0 {
		target = string(appointment.StatusRejected)
	}
	id := pending[rng.Intn(len(pending))].ID

	start := time.Now()
	status, err = sess.do(ctx, http.MethodPatch, "/api/appointments/"+id+"/status", map[string]string{"status": target}, nil)
	s.rec.observe(opTriage, start, classify(status, err, http.StatusOK, http.StatusConflict))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
