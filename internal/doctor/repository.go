package doctor

import (
	"context"

	"github.com/google/uuid"

	"github.com/hackgods/medicare-hms/internal/apperr"
)

var (
	ErrDoctorNotFound = apperr.NotFound("doctor not found")
	ErrEmailTaken     = apperr.Conflict("Doctor with this email already exists")
)

type Repository interface {
	CreateDoctor(ctx context.Context, d *Doctor) (*Doctor, error)
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetDoctorByEmail(ctx context.Context, email string) (*Doctor, error)

	// ListDoctors orders by last name, then first name.
	ListDoctors(ctx context.Context, activeOnly bool) ([]Doctor, error)

	// UpdateDoctor overwrites every mutable column and bumps updated_at.
	UpdateDoctor(ctx context.Context, d *Doctor) (*Doctor, error)

	CountActiveDoctors(ctx context.Context) (int, error)
}
