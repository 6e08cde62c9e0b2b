// Package memstore keeps every entity in process memory. It backs the API
// when STORAGE=memory and serves as the fake store in tests. Rows are
// returned as copies so callers never share state with the store.
package memstore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/medicare-hms/internal/appointment"
	"github.com/hackgods/medicare-hms/internal/doctor"
	"github.com/hackgods/medicare-hms/internal/message"
	"github.com/hackgods/medicare-hms/internal/user"
)

type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users        map[uuid.UUID]user.User
	doctors      map[uuid.UUID]doctor.Doctor
	appointments map[uuid.UUID]appointment.Appointment
	messages     map[uuid.UUID]message.Message

	// insertion order, oldest first
	appointmentOrder []uuid.UUID
	messageOrder     []uuid.UUID

	revoked map[string]time.Time
}

func New() *Store {
	return &Store{
		now:          time.Now,
		users:        make(map[uuid.UUID]user.User),
		doctors:      make(map[uuid.UUID]doctor.Doctor),
		appointments: make(map[uuid.UUID]appointment.Appointment),
		messages:     make(map[uuid.UUID]message.Message),
		revoked:      make(map[string]time.Time),
	}
}

func (s *Store) Users() *Users               { return &Users{s: s} }
func (s *Store) Doctors() *Doctors           { return &Doctors{s: s} }
func (s *Store) Appointments() *Appointments { return &Appointments{s: s} }
func (s *Store) Messages() *Messages         { return &Messages{s: s} }
func (s *Store) Revocations() *Revocations   { return &Revocations{s: s} }
