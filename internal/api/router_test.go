package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hackgods/medicare-hms/internal/api"
	"github.com/hackgods/medicare-hms/internal/appointment"
	"github.com/hackgods/medicare-hms/internal/auth"
	"github.com/hackgods/medicare-hms/internal/dashboard"
	"github.com/hackgods/medicare-hms/internal/doctor"
	"github.com/hackgods/medicare-hms/internal/logging"
	"github.com/hackgods/medicare-hms/internal/memstore"
	"github.com/hackgods/medicare-hms/internal/message"
	"github.com/hackgods/medicare-hms/internal/user"
)

const testSecret = "router-test-secret"

type harness struct {
	t       *testing.T
	handler http.Handler
	users   *user.Service
	issuer  *auth.Issuer
}

func newHarness(t *testing.T, mutate ...func(*api.RouterConfig)) *harness {
	t.Helper()
	store := memstore.New()
	logger := logging.Discard()

	users := user.NewService(store.Users(), auth.NewHasher(bcrypt.MinCost), logger)
	doctors := doctor.NewService(store.Doctors(), logger)
	issuer := auth.NewIssuer(testSecret, time.Hour)

	cfg := api.RouterConfig{
		Users:        users,
		Doctors:      doctors,
		Appointments: appointment.NewService(store.Appointments(), doctors, logger),
		Messages:     message.NewService(store.Messages(), logger),
		Dashboard:    dashboard.NewService(store.Appointments(), store.Doctors(), store.Messages()),
		Tokens:       issuer,
		Revocations:  store.Revocations(),
		Logger:       logger,
		Env:          "test",
		Version:      "test",
	}
	for _, m := range mutate {
		m(&cfg)
	}

	return &harness{t: t, handler: api.NewRouter(cfg), users: users, issuer: issuer}
}

// do sends a JSON request. A non-empty token is sent as the session cookie.
func (h *harness) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: api.SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func sessionToken(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == api.SessionCookieName {
			return c.Value
		}
	}
	t.Fatalf("no %s cookie in response", api.SessionCookieName)
	return ""
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (h *harness) register(email string) string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/api/register", map[string]string{
		"email": email, "password": "secret1", "firstName": "Jane", "lastName": "Doe",
	}, "")
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	return sessionToken(h.t, rec)
}

func (h *harness) admin() string {
	h.t.Helper()
	_, err := h.users.Provision(context.Background(), user.ProvisionInput{
		Email: "admin@hospital.org", Password: "adminpass", FirstName: "Ada", LastName: "Min", Role: user.RoleAdmin,
	})
	require.NoError(h.t, err)

	rec := h.do(http.MethodPost, "/api/login", map[string]string{
		"email": "admin@hospital.org", "password": "adminpass",
	}, "")
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	return sessionToken(h.t, rec)
}

func (h *harness) createDoctor(adminToken string) api.DoctorResponse {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/api/doctors", map[string]any{
		"firstName": "Alice", "lastName": "Smith", "email": "alice@hospital.org", "specialty": "cardiology",
	}, adminToken)
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[api.DoctorResponse](h.t, rec)
}

func TestBookingLifecycle(t *testing.T) {
	h := newHarness(t)
	adminToken := h.admin()
	patientToken := h.register("jane@example.com")

	doc := h.createDoctor(adminToken)
	assert.True(t, doc.IsActive)

	rec := h.do(http.MethodGet, "/api/doctors", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	doctors := decode[[]api.DoctorResponse](t, rec)
	require.Len(t, doctors, 1)
	assert.Equal(t, doc.ID, doctors[0].ID)

	rec = h.do(http.MethodPost, "/api/appointments", map[string]any{
		"doctorId": doc.ID.String(),
		"date":     "2025-01-10",
		"time":     "10:00",
		"reason":   "chest pain",
		"status":   "accepted",
	}, patientToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	appt := decode[api.AppointmentResponse](t, rec)
	assert.Equal(t, "pending", appt.Status)

	rec = h.do(http.MethodGet, "/api/dashboard/stats", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, api.StatsResponse{TotalAppointments: 1, ActiveDoctors: 1, PendingAppointments: 1}, decode[api.StatsResponse](t, rec))

	rec = h.do(http.MethodPatch, "/api/appointments/"+appt.ID.String()+"/status", map[string]string{"status": "accepted"}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "accepted", decode[api.AppointmentResponse](t, rec).Status)

	rec = h.do(http.MethodPatch, "/api/appointments/"+appt.ID.String()+"/status", map[string]string{"status": "rejected"}, adminToken)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodGet, "/api/dashboard/stats", nil, adminToken)
	assert.Equal(t, api.StatsResponse{TotalAppointments: 1, ActiveDoctors: 1}, decode[api.StatsResponse](t, rec))

	rec = h.do(http.MethodGet, "/api/appointments", nil, patientToken)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]api.AppointmentResponse](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, "accepted", mine[0].Status)
	require.NotNil(t, mine[0].Doctor)
	assert.Equal(t, "Smith", mine[0].Doctor.LastName)
}

func TestAppointmentVisibility(t *testing.T) {
	h := newHarness(t)
	adminToken := h.admin()
	doc := h.createDoctor(adminToken)
	jane := h.register("jane@example.com")
	john := h.register("john@example.com")

	rec := h.do(http.MethodPost, "/api/appointments", map[string]any{
		"doctorId": doc.ID.String(), "date": "2025-01-10", "time": "09:00", "reason": "checkup",
	}, jane)
	require.Equal(t, http.StatusCreated, rec.Code)
	appt := decode[api.AppointmentResponse](t, rec)

	rec = h.do(http.MethodGet, "/api/appointments", nil, john)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]api.AppointmentResponse](t, rec))

	rec = h.do(http.MethodGet, "/api/appointments/"+appt.ID.String(), nil, john)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodGet, "/api/appointments/"+appt.ID.String(), nil, jane)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/api/appointments?status=pending", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.AppointmentResponse](t, rec), 1)

	rec = h.do(http.MethodGet, "/api/appointments/not-a-uuid", nil, jane)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthentication(t *testing.T) {
	h := newHarness(t)
	token := h.register("jane@example.com")

	rec := h.do(http.MethodGet, "/api/auth/user", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token provided", decode[api.ErrorResponse](t, rec).Message)

	rec = h.do(http.MethodGet, "/api/auth/user", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", decode[api.ErrorResponse](t, rec).Message)

	forged, _, err := auth.NewIssuer("another-secret", time.Hour).Issue(decodeMe(t, h, token).ID)
	require.NoError(t, err)
	rec = h.do(http.MethodGet, "/api/auth/user", nil, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// bearer header works when no cookie is present
	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	out := httptest.NewRecorder()
	h.handler.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)

	// the cookie wins over the header
	req = httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.AddCookie(&http.Cookie{Name: api.SessionCookieName, Value: "garbage"})
	out = httptest.NewRecorder()
	h.handler.ServeHTTP(out, req)
	assert.Equal(t, http.StatusUnauthorized, out.Code)
}

func decodeMe(t *testing.T, h *harness, token string) api.UserResponse {
	t.Helper()
	rec := h.do(http.MethodGet, "/api/auth/user", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[api.UserResponse](t, rec)
}

func TestRegister(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/register", map[string]string{
		"email": "Mallory@Example.com", "password": "secret1", "firstName": "Mal", "lastName": "Lory", "role": "admin",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, "user", raw["role"])
	assert.Equal(t, "mallory@example.com", raw["email"])

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == api.SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, int(time.Hour/time.Second), cookie.MaxAge)

	me := decodeMe(t, h, cookie.Value)
	assert.Equal(t, "user", me.Role)

	rec = h.do(http.MethodPost, "/api/register", map[string]string{
		"email": "mallory@example.com", "password": "secret1", "firstName": "M", "lastName": "L",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[api.ErrorResponse](t, rec)
	assert.Equal(t, "duplicate_email", body.Error)
	assert.Equal(t, "Email already exists", body.Message)
}

func TestRegister_Validation(t *testing.T) {
	h := newHarness(t)

	cases := map[string]struct {
		body    map[string]string
		message string
	}{
		"short password": {
			body:    map[string]string{"email": "a@example.com", "password": "12345", "firstName": "A", "lastName": "B"},
			message: "password must be at least 6 characters",
		},
		"bad email": {
			body:    map[string]string{"email": "nope", "password": "secret1", "firstName": "A", "lastName": "B"},
			message: "email must be a valid email address",
		},
		"multibyte password over 72 bytes": {
			body:    map[string]string{"email": "a@example.com", "password": strings.Repeat("é", 40), "firstName": "A", "lastName": "B"},
			message: "password must be at most 72 bytes",
		},
		"missing name": {
			body:    map[string]string{"email": "a@example.com", "password": "secret1", "lastName": "B"},
			message: "firstName is required",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := h.do(http.MethodPost, "/api/register", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.message, decode[api.ErrorResponse](t, rec).Message)
		})
	}
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	h.register("jane@example.com")

	rec := h.do(http.MethodPost, "/api/login", map[string]string{"email": "jane@example.com", "password": "wrong-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decode[api.ErrorResponse](t, rec).Message)

	rec = h.do(http.MethodPost, "/api/login", map[string]string{"email": "nobody@example.com", "password": "secret1"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decode[api.ErrorResponse](t, rec).Message)

	rec = h.do(http.MethodPost, "/api/login", map[string]string{"email": "JANE@example.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, sessionToken(t, rec))
}

func TestLogoutRevokesToken(t *testing.T) {
	h := newHarness(t)
	token := h.register("jane@example.com")
	decodeMe(t, h, token)

	rec := h.do(http.MethodPost, "/api/logout", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully", decode[api.MessageOnlyResponse](t, rec).Message)

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == api.SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)

	rec = h.do(http.MethodGet, "/api/auth/user", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// logging out without a session still succeeds
	rec = h.do(http.MethodPost, "/api/logout", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutesRejectUsers(t *testing.T) {
	h := newHarness(t)
	token := h.register("jane@example.com")

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/doctors"},
		{http.MethodGet, "/api/admin/doctors"},
		{http.MethodPost, "/api/admin/create"},
		{http.MethodGet, "/api/messages"},
		{http.MethodGet, "/api/dashboard/stats"},
		{http.MethodPatch, "/api/appointments/00000000-0000-0000-0000-000000000001/status"},
	}
	for _, rt := range routes {
		rec := h.do(rt.method, rt.path, map[string]string{}, token)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", rt.method, rt.path)
		assert.Equal(t, "Admin access required", decode[api.ErrorResponse](t, rec).Message)

		rec = h.do(rt.method, rt.path, map[string]string{}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", rt.method, rt.path)
	}
}

func TestNoDeleteRoutes(t *testing.T) {
	h := newHarness(t)
	adminToken := h.admin()
	doc := h.createDoctor(adminToken)

	for _, path := range []string{
		"/api/users/" + doc.ID.String(),
		"/api/doctors/" + doc.ID.String(),
		"/api/appointments/" + doc.ID.String(),
	} {
		rec := h.do(http.MethodDelete, path, nil, adminToken)
		assert.Contains(t, []int{http.StatusNotFound, http.StatusMethodNotAllowed}, rec.Code, path)
	}

	rec := h.do(http.MethodGet, "/api/doctors", nil, "")
	assert.Len(t, decode[[]api.DoctorResponse](t, rec), 1)
}

func TestDoctorManagement(t *testing.T) {
	h := newHarness(t)
	adminToken := h.admin()
	doc := h.createDoctor(adminToken)

	rec := h.do(http.MethodPost, "/api/doctors", map[string]any{
		"firstName": "Bob", "lastName": "Stone", "email": "bob@hospital.org", "specialty": "astrology",
	}, adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/api/doctors", map[string]any{
		"firstName": "Al", "lastName": "Smith", "email": "alice@hospital.org", "specialty": "neurology",
	}, adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "duplicate_email", decode[api.ErrorResponse](t, rec).Error)

	rec = h.do(http.MethodPatch, "/api/doctors/"+doc.ID.String(), map[string]any{"experience": 9}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, decode[api.DoctorResponse](t, rec).Experience)

	rec = h.do(http.MethodPatch, "/api/doctors/"+doc.ID.String(), map[string]any{"firstName": "Alicia"}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[api.DoctorResponse](t, rec)
	require.NotNil(t, updated.Experience, "omitted experience is left alone")
	assert.Equal(t, 9, *updated.Experience)

	rec = h.do(http.MethodPatch, "/api/doctors/"+doc.ID.String(), map[string]any{"experience": nil}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[api.DoctorResponse](t, rec).Experience)

	rec = h.do(http.MethodPatch, "/api/doctors/"+doc.ID.String(), map[string]any{"experience": 71}, adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPatch, "/api/doctors/"+doc.ID.String(), map[string]any{"isActive": false}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, decode[api.DoctorResponse](t, rec).IsActive)

	rec = h.do(http.MethodGet, "/api/doctors", nil, "")
	assert.Empty(t, decode[[]api.DoctorResponse](t, rec))

	rec = h.do(http.MethodGet, "/api/admin/doctors", nil, adminToken)
	assert.Len(t, decode[[]api.DoctorResponse](t, rec), 1)

	rec = h.do(http.MethodGet, "/api/meta", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	meta := decode[api.MetaResponse](t, rec)
	assert.Equal(t, doctor.Specialties, meta.Specialties)
	assert.Equal(t, appointment.TimeSlots, meta.TimeSlots)
}

func TestMessages(t *testing.T) {
	h := newHarness(t)
	adminToken := h.admin()
	patient := h.register("jane@example.com")

	rec := h.do(http.MethodPost, "/api/messages", map[string]any{"subject": "Billing", "content": "Where is my invoice?"}, patient)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	msg := decode[api.MessageResponse](t, rec)
	assert.False(t, msg.IsRead)

	rec = h.do(http.MethodPost, "/api/messages", map[string]any{"content": ""}, patient)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodGet, "/api/messages?unread=true", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]api.MessageResponse](t, rec)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].User)
	assert.Equal(t, "jane@example.com", list[0].User.Email)

	rec = h.do(http.MethodPatch, "/api/messages/"+msg.ID.String()+"/read", nil, adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[api.MessageResponse](t, rec).IsRead)

	rec = h.do(http.MethodGet, "/api/messages?unread=true", nil, adminToken)
	assert.Empty(t, decode[[]api.MessageResponse](t, rec))

	rec = h.do(http.MethodDelete, "/api/messages/"+msg.ID.String(), nil, adminToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(http.MethodDelete, "/api/messages/"+msg.ID.String(), nil, adminToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAdmin(t *testing.T) {
	h := newHarness(t)
	adminToken := h.admin()

	rec := h.do(http.MethodPost, "/api/admin/create", map[string]string{
		"email": "second@hospital.org", "firstName": "Sec", "lastName": "Ond",
	}, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[api.CreateAdminResponse](t, rec)
	assert.Equal(t, "admin", created.User.Role)
	require.NotEmpty(t, created.TemporaryPassword)

	rec = h.do(http.MethodPost, "/api/login", map[string]string{
		"email": "second@hospital.org", "password": created.TemporaryPassword,
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRateLimit(t *testing.T) {
	h := newHarness(t, func(cfg *api.RouterConfig) {
		cfg.AuthLimiter = api.NewRateLimiter(0.001, 2)
	})

	body := map[string]string{"email": "nobody@example.com", "password": "secret1"}
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/api/login", body, "").Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/api/login", body, "").Code)

	rec := h.do(http.MethodPost, "/api/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// other routes are not limited
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/doctors", nil, "").Code)
}

func loginFrom(h *harness, forwardedFor string) int {
	h.t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"nobody@example.com","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestAuthRateLimit_IgnoresForwardedHeaders(t *testing.T) {
	h := newHarness(t, func(cfg *api.RouterConfig) {
		cfg.AuthLimiter = api.NewRateLimiter(0.001, 1)
	})

	assert.Equal(t, http.StatusUnauthorized, loginFrom(h, "198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, loginFrom(h, "198.51.100.2"),
		"a spoofed header must not open a fresh bucket")
}

func TestAuthRateLimit_TrustedProxy(t *testing.T) {
	h := newHarness(t, func(cfg *api.RouterConfig) {
		cfg.AuthLimiter = api.NewRateLimiter(0.001, 1)
		cfg.TrustProxy = true
	})

	assert.Equal(t, http.StatusUnauthorized, loginFrom(h, "198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, loginFrom(h, "198.51.100.1"))
	assert.Equal(t, http.StatusUnauthorized, loginFrom(h, "198.51.100.2"))
}

func TestHealth(t *testing.T) {
	down := errors.New("dial tcp: connection refused")
	h := newHarness(t, func(cfg *api.RouterConfig) {
		cfg.HealthChecks = []api.HealthCheck{
			{Name: "postgres", Critical: true, Ping: func(context.Context) error { return down }},
			{Name: "cache", Ping: func(context.Context) error { return nil }},
		}
	})

	rec := h.do(http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	ready := decode[api.ReadinessResponse](t, rec)
	assert.Equal(t, "error", ready.Status)
	assert.Equal(t, map[string]string{"postgres": "down", "cache": "ok"}, ready.Dependencies)
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[api.ErrorResponse](t, rec).Error)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
