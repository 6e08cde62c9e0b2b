package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hackgods/medicare-hms/internal/appointment"
	"github.com/hackgods/medicare-hms/internal/auth"
	"github.com/hackgods/medicare-hms/internal/dashboard"
	"github.com/hackgods/medicare-hms/internal/doctor"
	"github.com/hackgods/medicare-hms/internal/message"
	"github.com/hackgods/medicare-hms/internal/user"
)

type RouterConfig struct {
	Users        *user.Service
	Doctors      *doctor.Service
	Appointments *appointment.Service
	Messages     *message.Service
	Dashboard    *dashboard.Service

	Tokens       *auth.Issuer
	Revocations  auth.Revocations
	CookieSecure bool
	AuthLimiter  *RateLimiter // nil disables rate limiting

	// TrustProxy honours X-Forwarded-For / X-Real-IP. Enable only behind a
	// proxy that overwrites them, or clients can pick their own address.
	TrustProxy bool

	Logger       *slog.Logger
	HealthChecks []HealthCheck
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	health := NewHealthHandler(cfg.HealthChecks, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	sess := &sessions{issuer: cfg.Tokens, revocations: cfg.Revocations, secure: cfg.CookieSecure}
	authn := NewAuthenticator(cfg.Tokens, cfg.Revocations, cfg.Users)

	limited := func(h http.Handler) http.Handler { return h }
	if cfg.AuthLimiter != nil {
		limited = cfg.AuthLimiter.Middleware
	}

	r.Route("/api", func(r chi.Router) {
		// Public
		r.With(limited).Post("/register", registerHandler(cfg.Users, sess))
		r.With(limited).Post("/login", loginHandler(cfg.Users, sess))
		r.Post("/logout", logoutHandler(sess))
		r.Get("/doctors", listDoctorsHandler(cfg.Doctors))
		r.Get("/meta", metaHandler())

		// Any signed-in user
		r.Group(func(r chi.Router) {
			r.Use(authn.Middleware)

			r.Get("/auth/user", currentUserHandler())
			r.Get("/appointments", listAppointmentsHandler(cfg.Appointments))
			r.Post("/appointments", createAppointmentHandler(cfg.Appointments))
			r.Get("/appointments/{id}", getAppointmentHandler(cfg.Appointments))
			r.Post("/messages", createMessageHandler(cfg.Messages))

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)

				r.Post("/doctors", createDoctorHandler(cfg.Doctors))
				r.Patch("/doctors/{id}", updateDoctorHandler(cfg.Doctors))
				r.Get("/admin/doctors", listAllDoctorsHandler(cfg.Doctors))
				r.Post("/admin/create", createAdminHandler(cfg.Users))
				r.Patch("/appointments/{id}/status", updateAppointmentStatusHandler(cfg.Appointments))
				r.Get("/messages", listMessagesHandler(cfg.Messages))
				r.Patch("/messages/{id}/read", markMessageReadHandler(cfg.Messages))
				r.Delete("/messages/{id}", deleteMessageHandler(cfg.Messages))
				r.Get("/dashboard/stats", dashboardStatsHandler(cfg.Dashboard))
			})
		})
	})

	return r
}
