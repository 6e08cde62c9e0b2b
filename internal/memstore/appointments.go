package memstore

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hackgods/medicare-hms/internal/appointment"
)

var errMissingReference = errors.New("memstore: appointment references a missing user or doctor")

type Appointments struct {
	s *Store
}

var _ appointment.Repository = (*Appointments)(nil)

func (r *Appointments) CreateAppointment(_ context.Context, a *appointment.Appointment) (*appointment.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, userOK := r.s.users[a.UserID]
	_, doctorOK := r.s.doctors[a.DoctorID]
	if !userOK || !doctorOK {
		return nil, errMissingReference
	}

	row := *a
	row.CreatedAt = r.s.now()
	row.UpdatedAt = row.CreatedAt
	r.s.appointments[row.ID] = row
	r.s.appointmentOrder = append(r.s.appointmentOrder, row.ID)
	return &row, nil
}

func (r *Appointments) GetAppointmentByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *Appointments) GetAppointmentDetail(_ context.Context, id uuid.UUID) (*appointment.AppointmentDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	det := r.detailLocked(a)
	return &det, nil
}

func (r *Appointments) ListAppointments(_ context.Context, f appointment.ListFilter) ([]appointment.AppointmentDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []appointment.AppointmentDetail{}
	for i := len(r.s.appointmentOrder) - 1; i >= 0; i-- {
		a := r.s.appointments[r.s.appointmentOrder[i]]
		if f.UserID != nil && a.UserID != *f.UserID {
			continue
		}
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		result = append(result, r.detailLocked(a))
	}
	return result, nil
}

func (r *Appointments) UpdateAppointmentStatus(_ context.Context, id uuid.UUID, from, to appointment.Status) (*appointment.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.appointments[id]
	if !ok || a.Status != from {
		return nil, appointment.ErrAppointmentNotFound
	}
	a.Status = to
	a.UpdatedAt = r.s.now()
	r.s.appointments[id] = a
	return &a, nil
}

func (r *Appointments) CountAppointments(_ context.Context, status *appointment.Status) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if status == nil {
		return len(r.s.appointments), nil
	}
	n := 0
	for _, a := range r.s.appointments {
		if a.Status == *status {
			n++
		}
	}
	return n, nil
}

func (r *Appointments) detailLocked(a appointment.Appointment) appointment.AppointmentDetail {
	det := appointment.AppointmentDetail{Appointment: a}
	if u, ok := r.s.users[a.UserID]; ok {
		det.User = publicUser(u)
	}
	if d, ok := r.s.doctors[a.DoctorID]; ok {
		det.Doctor = &d
	}
	return det
}
