package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/hackgods/medicare-hms/internal/apperr"
)

var (
	ErrAppointmentNotFound = apperr.NotFound("appointment not found")
	ErrInvalidStatus       = apperr.Validation("status must be one of pending, accepted, rejected")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	CreateAppointment(ctx context.Context, a *Appointment) (*Appointment, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	GetAppointmentDetail(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error)

	// ListAppointments returns newest first, joined with user and doctor.
	ListAppointments(ctx context.Context, f ListFilter) ([]AppointmentDetail, error)

	// UpdateAppointmentStatus only applies when the stored status equals from;
	// otherwise it returns ErrAppointmentNotFound.
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Appointment, error)

	// CountAppointments counts all appointments, or those in status when set.
	CountAppointments(ctx context.Context, status *Status) (int, error)
}
