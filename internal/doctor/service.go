package doctor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/hackgods/medicare-hms/internal/apperr"
	"github.com/hackgods/medicare-hms/internal/user"
)

const maxPhoneLength = 32

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

type CreateInput struct {
	FirstName  string
	LastName   string
	Email      string
	Specialty  string
	Phone      *string
	Experience *int
}

// Create adds a doctor to the directory. New doctors are always active.
func (s *Service) Create(ctx context.Context, caller *user.User, in CreateInput) (*Doctor, error) {
	if !caller.IsAdmin() {
		return nil, apperr.ErrForbidden
	}

	d := &Doctor{
		ID:         uuid.New(),
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		Specialty:  strings.ToLower(strings.TrimSpace(in.Specialty)),
		Phone:      trimOptional(in.Phone),
		Experience: in.Experience,
		IsActive:   true,
	}
	if err := validate(d); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, d.Email, uuid.Nil); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateDoctor(ctx, d)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create doctor: %w", err)
	}

	s.logger.InfoContext(ctx, "doctor created", "doctor_id", created.ID, "specialty", created.Specialty, "created_by", caller.ID)
	return created, nil
}

// ListActive returns the doctors available for booking.
func (s *Service) ListActive(ctx context.Context) ([]Doctor, error) {
	doctors, err := s.repo.ListDoctors(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list active doctors: %w", err)
	}
	return doctors, nil
}

// ListAll includes deactivated doctors and is restricted to admins.
func (s *Service) ListAll(ctx context.Context, caller *user.User) ([]Doctor, error) {
	if !caller.IsAdmin() {
		return nil, apperr.ErrForbidden
	}
	doctors, err := s.repo.ListDoctors(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := s.repo.GetDoctorByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	return d, nil
}

// UpdateInput is a partial update; nil fields are left unchanged. An empty
// Phone clears it, as does ClearExperience for Experience.
type UpdateInput struct {
	FirstName       *string
	LastName        *string
	Email           *string
	Specialty       *string
	Phone           *string
	Experience      *int
	ClearExperience bool
	IsActive        *bool
}

// Update edits a doctor or toggles IsActive. Deactivation hides the doctor
// from booking without touching existing appointments.
func (s *Service) Update(ctx context.Context, caller *user.User, id uuid.UUID, in UpdateInput) (*Doctor, error) {
	if !caller.IsAdmin() {
		return nil, apperr.ErrForbidden
	}

	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		d.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		d.LastName = strings.TrimSpace(*in.LastName)
	}
	emailChanged := false
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		emailChanged = email != d.Email
		d.Email = email
	}
	if in.Specialty != nil {
		d.Specialty = strings.ToLower(strings.TrimSpace(*in.Specialty))
	}
	if in.Phone != nil {
		d.Phone = trimOptional(in.Phone)
	}
	switch {
	case in.ClearExperience:
		d.Experience = nil
	case in.Experience != nil:
		d.Experience = in.Experience
	}
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}

	if err := validate(d); err != nil {
		return nil, err
	}
	if emailChanged {
		if err := s.ensureEmailFree(ctx, d.Email, d.ID); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.UpdateDoctor(ctx, d)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update doctor: %w", err)
	}

	s.logger.InfoContext(ctx, "doctor updated", "doctor_id", updated.ID, "is_active", updated.IsActive, "updated_by", caller.ID)
	return updated, nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.repo.GetDoctorByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrDoctorNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check doctor email: %w", err)
	case existing.ID != self:
		return ErrEmailTaken
	}
	return nil
}

func validate(d *Doctor) error {
	if d.FirstName == "" || d.LastName == "" {
		return apperr.Validation("firstName and lastName are required")
	}
	if addr, err := mail.ParseAddress(d.Email); err != nil || addr.Address != d.Email {
		return apperr.Validation("email must be a valid email address")
	}
	if !ValidSpecialty(d.Specialty) {
		return apperr.Validation("specialty must be one of %s", strings.Join(Specialties, ", "))
	}
	if d.Experience != nil && (*d.Experience < 0 || *d.Experience > MaxExperienceYears) {
		return apperr.Validation("experience must be between 0 and %d years", MaxExperienceYears)
	}
	if d.Phone != nil && len(*d.Phone) > maxPhoneLength {
		return apperr.Validation("phone must be at most %d characters", maxPhoneLength)
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
