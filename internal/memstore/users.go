package memstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/hackgods/medicare-hms/internal/user"
)

type Users struct {
	s *Store
}

var _ user.Repository = (*Users)(nil)

func (r *Users) CreateUser(_ context.Context, u *user.User) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return nil, user.ErrEmailTaken
		}
	}

	row := *u
	row.CreatedAt = r.s.now()
	r.s.users[row.ID] = row
	return &row, nil
}

func (r *Users) GetUserByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r *Users) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

// publicUser strips the digest before a user is joined onto another row.
func publicUser(u user.User) *user.User {
	u.PasswordDigest = ""
	return &u
}
