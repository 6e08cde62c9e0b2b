package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/hackgods/medicare-hms/internal/apperr"
)

var (
	ErrUserNotFound = apperr.NotFound("user not found")
	ErrEmailTaken   = apperr.Conflict("Email already exists")
)

type Repository interface {
	// CreateUser returns ErrEmailTaken when the email is already registered.
	CreateUser(ctx context.Context, u *User) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}
