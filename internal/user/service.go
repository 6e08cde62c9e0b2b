package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hackgods/medicare-hms/internal/apperr"
)

const (
	MinPasswordLength = 6
	// bcrypt rejects longer input
	MaxPasswordBytes = 72
)

var ErrInvalidCredentials = apperr.Unauthenticated("Invalid credentials")

type PasswordHasher interface {
	HashPassword(plaintext string) (string, error)
	VerifyPassword(plaintext, digest string) bool
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger

	dummyOnce   sync.Once
	dummyDigest string
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a self-service account. The role is always RoleUser.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	u, err := s.create(ctx, in.Email, in.Password, in.FirstName, in.LastName, RoleUser)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Authenticate checks an email/password pair. Unknown email and wrong
// password produce the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.hasher.VerifyPassword(password, s.dummy())
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !s.hasher.VerifyPassword(password, u.PasswordDigest) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

type AdminInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string // optional, generated when empty
}

// CreateAdmin lets an existing admin create another admin account. When no
// password is given one is generated and returned; otherwise the returned
// string is empty.
func (s *Service) CreateAdmin(ctx context.Context, caller *User, in AdminInput) (*User, string, error) {
	if !caller.IsAdmin() {
		return nil, "", apperr.ErrForbidden
	}

	password := in.Password
	generated := ""
	if password == "" {
		p, err := generatePassword()
		if err != nil {
			return nil, "", fmt.Errorf("generate password: %w", err)
		}
		password, generated = p, p
	}

	u, err := s.create(ctx, in.Email, password, in.FirstName, in.LastName, RoleAdmin)
	if err != nil {
		return nil, "", err
	}
	s.logger.InfoContext(ctx, "admin created", "user_id", u.ID, "created_by", caller.ID)
	return u, generated, nil
}

type ProvisionInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      Role
}

// Provision is the out-of-band path used by operator tooling to create
// accounts with any role, including the first admin.
func (s *Service) Provision(ctx context.Context, in ProvisionInput) (*User, error) {
	if !in.Role.Valid() {
		return nil, apperr.Validation("role must be user or admin")
	}
	u, err := s.create(ctx, in.Email, in.Password, in.FirstName, in.LastName, in.Role)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user provisioned", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (s *Service) create(ctx context.Context, email, password, firstName, lastName string, role Role) (*User, error) {
	u := &User{
		ID:        uuid.New(),
		Email:     normalizeEmail(email),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Role:      role,
	}

	if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
		return nil, apperr.Validation("email must be a valid email address")
	}
	if len(password) < MinPasswordLength {
		return nil, apperr.Validation("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return nil, apperr.Validation("password must be at most %d bytes", MaxPasswordBytes)
	}
	if u.FirstName == "" || u.LastName == "" {
		return nil, apperr.Validation("firstName and lastName are required")
	}

	if _, err := s.repo.GetUserByEmail(ctx, u.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	digest, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordDigest = digest

	created, err := s.repo.CreateUser(ctx, u)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// dummy returns a digest to verify against when the email is unknown, so both
// failure paths cost one hash comparison.
func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyDigest, _ = s.hasher.HashPassword(uuid.NewString())
	})
	return s.dummyDigest
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generatePassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
