package appointment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hackgods/medicare-hms/internal/apperr"
	"github.com/hackgods/medicare-hms/internal/doctor"
	"github.com/hackgods/medicare-hms/internal/user"
)

const (
	EventAppointmentCreated       = "APPOINTMENT_CREATED"
	EventAppointmentStatusChanged = "APPOINTMENT_STATUS_CHANGED"

	MaxReasonLength = 1000
)

var (
	ErrInvalidStatusTransition = apperr.Conflict("appointment status can only change while pending")
	ErrUnknownDoctor           = apperr.Validation("doctorId does not reference an existing doctor")
)

// DoctorLookup resolves a doctor by id, active or not.
type DoctorLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
}

type Service struct {
	repo    Repository
	doctors DoctorLookup
	logger  *slog.Logger
}

func NewService(repo Repository, doctors DoctorLookup, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		doctors: doctors,
		logger:  logger,
	}
}

type CreateInput struct {
	DoctorID uuid.UUID
	Date     string
	Time     string
	Reason   string
}

// CreateAppointment books an appointment for the caller. Ownership always
// comes from the caller and the initial status is always pending. The slot
// is not checked against existing bookings.
func (s *Service) CreateAppointment(ctx context.Context, caller *user.User, in CreateInput) (*Appointment, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthenticated
	}

	a := &Appointment{
		ID:       uuid.New(),
		UserID:   caller.ID,
		DoctorID: in.DoctorID,
		Date:     strings.TrimSpace(in.Date),
		Time:     strings.TrimSpace(in.Time),
		Reason:   strings.TrimSpace(in.Reason),
		Status:   StatusPending,
	}
	if err := validateSchedule(a.Date, a.Time); err != nil {
		return nil, err
	}
	if a.Reason == "" {
		return nil, apperr.Validation("reason is required")
	}
	if utf8.RuneCountInString(a.Reason) > MaxReasonLength {
		return nil, apperr.Validation("reason must be at most %d characters", MaxReasonLength)
	}

	if _, err := s.doctors.Get(ctx, a.DoctorID); err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			return nil, ErrUnknownDoctor
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	created, err := s.repo.CreateAppointment(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.logEvent(ctx, created.ID, EventAppointmentCreated,
		"user_id", created.UserID,
		"doctor_id", created.DoctorID,
		"date", created.Date,
		"time", created.Time,
	)

	return created, nil
}

// ListAppointments returns every appointment to admins, optionally filtered by
// status ("" or "all" means no filter). Other callers only ever see their own
// appointments and the filter is ignored.
func (s *Service) ListAppointments(ctx context.Context, caller *user.User, status string) ([]AppointmentDetail, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthenticated
	}

	var f ListFilter
	if caller.IsAdmin() {
		if status != "" && status != "all" {
			st, err := ParseStatus(status)
			if err != nil {
				return nil, err
			}
			f.Status = &st
		}
	} else {
		uid := caller.ID
		f.UserID = &uid
	}

	list, err := s.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return list, nil
}

// GetAppointment returns the appointment to its owner or an admin. Anyone else
// gets ErrAppointmentNotFound so existence is not revealed.
func (s *Service) GetAppointment(ctx context.Context, caller *user.User, id uuid.UUID) (*AppointmentDetail, error) {
	if caller == nil {
		return nil, apperr.ErrUnauthenticated
	}

	detail, err := s.repo.GetAppointmentDetail(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if !caller.IsAdmin() && detail.UserID != caller.ID {
		return nil, ErrAppointmentNotFound
	}
	return detail, nil
}

// SetStatus moves a pending appointment to accepted or rejected. Setting the
// current status again is a no-op. Terminal appointments cannot change.
func (s *Service) SetStatus(ctx context.Context, caller *user.User, id uuid.UUID, status string) (*Appointment, error) {
	if !caller.IsAdmin() {
		return nil, apperr.ErrForbidden
	}

	target, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if appt.Status == target {
		return appt, nil
	}
	if appt.Status != StatusPending {
		return nil, ErrInvalidStatusTransition
	}

	updated, err := s.repo.UpdateAppointmentStatus(ctx, id, StatusPending, target)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// lost a race with another admin
			return s.reconcile(ctx, id, target)
		}
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	s.logEvent(ctx, updated.ID, EventAppointmentStatusChanged,
		"from", StatusPending,
		"to", updated.Status,
		"changed_by", caller.ID,
	)

	return updated, nil
}

func (s *Service) reconcile(ctx context.Context, id uuid.UUID, target Status) (*Appointment, error) {
	current, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("reload appointment: %w", err)
	}
	if current.Status == target {
		return current, nil
	}
	return nil, ErrInvalidStatusTransition
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, attrs ...any) {
	args := append([]any{"event", eventType, "appointment_id", appointmentID}, attrs...)
	s.logger.InfoContext(ctx, "appointment event", args...)
}

func validateSchedule(date, clock string) error {
	d, err := time.Parse(DateLayout, date)
	if err != nil || d.Format(DateLayout) != date {
		return apperr.Validation("date must be a calendar date in YYYY-MM-DD format")
	}
	t, err := time.Parse(TimeLayout, clock)
	if err != nil || t.Format(TimeLayout) != clock {
		return apperr.Validation("time must be HH:MM in 24-hour format")
	}
	return nil
}
