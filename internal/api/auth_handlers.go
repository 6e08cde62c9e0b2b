package api

import (
	"net/http"
	"time"

	"github.com/hackgods/medicare-hms/internal/auth"
	"github.com/hackgods/medicare-hms/internal/user"
)

// sessions issues tokens and writes them as cookies. Token exp and cookie
// Max-Age share one TTL.
type sessions struct {
	issuer      *auth.Issuer
	revocations auth.Revocations
	secure      bool
}

func (s *sessions) start(w http.ResponseWriter, r *http.Request, u *user.User) bool {
	token, exp, err := s.issuer.Issue(u.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(s.issuer.TTL() / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

func (s *sessions) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func registerHandler(users *user.Service, sess *sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		u, err := users.Register(r.Context(), user.RegisterInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		if !sess.start(w, r, u) {
			return
		}
		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

func loginHandler(users *user.Service, sess *sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		u, err := users.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		if !sess.start(w, r, u) {
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

// logoutHandler always clears the cookie. A still-valid token is also
// revoked so a copied value stops working.
func logoutHandler(sess *sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if raw := tokenFromRequest(r); raw != "" {
			if claims, err := sess.issuer.Verify(raw); err == nil {
				if err := sess.revocations.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
					LoggerFrom(r.Context()).WarnContext(r.Context(), "token revocation failed", "error", err)
				}
			}
		}

		sess.clear(w)
		writeJSON(w, http.StatusOK, MessageOnlyResponse{Message: "Logged out successfully"})
	}
}

func currentUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toUserResponse(CurrentUser(r.Context())))
	}
}

func createAdminHandler(users *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAdminRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		u, tempPassword, err := users.CreateAdmin(r.Context(), CurrentUser(r.Context()), user.AdminInput{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Password:  req.Password,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, CreateAdminResponse{
			User:              toUserResponse(u),
			TemporaryPassword: tempPassword,
		})
	}
}
