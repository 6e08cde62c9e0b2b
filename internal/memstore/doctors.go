package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/hackgods/medicare-hms/internal/doctor"
)

type Doctors struct {
	s *Store
}

var _ doctor.Repository = (*Doctors)(nil)

func (r *Doctors) CreateDoctor(_ context.Context, d *doctor.Doctor) (*doctor.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTakenLocked(d.Email, d.ID) {
		return nil, doctor.ErrEmailTaken
	}

	row := *d
	row.CreatedAt = r.s.now()
	row.UpdatedAt = row.CreatedAt
	r.s.doctors[row.ID] = row
	return &row, nil
}

func (r *Doctors) GetDoctorByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.doctors[id]
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	return &d, nil
}

func (r *Doctors) GetDoctorByEmail(_ context.Context, email string) (*doctor.Doctor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, d := range r.s.doctors {
		if d.Email == email {
			return &d, nil
		}
	}
	return nil, doctor.ErrDoctorNotFound
}

func (r *Doctors) ListDoctors(_ context.Context, activeOnly bool) ([]doctor.Doctor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []doctor.Doctor{}
	for _, d := range r.s.doctors {
		if activeOnly && !d.IsActive {
			continue
		}
		result = append(result, d)
	}
	slices.SortFunc(result, func(a, b doctor.Doctor) int {
		return cmp.Or(
			cmp.Compare(a.LastName, b.LastName),
			cmp.Compare(a.FirstName, b.FirstName),
		)
	})
	return result, nil
}

func (r *Doctors) UpdateDoctor(_ context.Context, d *doctor.Doctor) (*doctor.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.doctors[d.ID]
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	if r.emailTakenLocked(d.Email, d.ID) {
		return nil, doctor.ErrEmailTaken
	}

	row := *d
	row.CreatedAt = existing.CreatedAt
	row.UpdatedAt = r.s.now()
	r.s.doctors[row.ID] = row
	return &row, nil
}

func (r *Doctors) CountActiveDoctors(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, d := range r.s.doctors {
		if d.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *Doctors) emailTakenLocked(email string, self uuid.UUID) bool {
	for _, d := range r.s.doctors {
		if d.Email == email && d.ID != self {
			return true
		}
	}
	return false
}
