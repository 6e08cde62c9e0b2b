package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/medicare-hms/internal/doctor"
	"github.com/hackgods/medicare-hms/internal/user"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// ParseStatus accepts only the three literal status values.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusAccepted, StatusRejected:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Terminal reports whether no transition leaves this status.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// TimeSlots are the suggested booking times offered to clients. Booking is
// not restricted to them.
var TimeSlots = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"}

type Appointment struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	DoctorID  uuid.UUID
	Date      string // YYYY-MM-DD
	Time      string // HH:MM
	Reason    string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppointmentDetail is an appointment joined with its patient and doctor.
type AppointmentDetail struct {
	Appointment
	User   *user.User
	Doctor *doctor.Doctor
}

type ListFilter struct {
	UserID *uuid.UUID
	Status *Status
}
