// Package dashboard computes the admin overview counts. Every call reads the
// stores directly; nothing is cached.
package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hackgods/medicare-hms/internal/apperr"
	"github.com/hackgods/medicare-hms/internal/appointment"
	"github.com/hackgods/medicare-hms/internal/user"
)

type AppointmentCounter interface {
	CountAppointments(ctx context.Context, status *appointment.Status) (int, error)
}

type DoctorCounter interface {
	CountActiveDoctors(ctx context.Context) (int, error)
}

type MessageCounter interface {
	CountUnreadMessages(ctx context.Context) (int, error)
}

type Stats struct {
	TotalAppointments   int
	ActiveDoctors       int
	PendingAppointments int
	UnreadMessages      int
}

type Service struct {
	appointments AppointmentCounter
	doctors      DoctorCounter
	messages     MessageCounter
}

func NewService(appointments AppointmentCounter, doctors DoctorCounter, messages MessageCounter) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		messages:     messages,
	}
}

// Stats runs the four counts concurrently and fails if any of them fails.
func (s *Service) Stats(ctx context.Context, caller *user.User) (Stats, error) {
	if !caller.IsAdmin() {
		return Stats{}, apperr.ErrForbidden
	}

	var st Stats
	pending := appointment.StatusPending

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.TotalAppointments, err = s.appointments.CountAppointments(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		st.PendingAppointments, err = s.appointments.CountAppointments(gctx, &pending)
		return err
	})
	g.Go(func() (err error) {
		st.ActiveDoctors, err = s.doctors.CountActiveDoctors(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.UnreadMessages, err = s.messages.CountUnreadMessages(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return st, nil
}
