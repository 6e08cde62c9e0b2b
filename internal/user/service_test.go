package user_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hackgods/medicare-hms/internal/apperr"
	"github.com/hackgods/medicare-hms/internal/auth"
	"github.com/hackgods/medicare-hms/internal/logging"
	"github.com/hackgods/medicare-hms/internal/memstore"
	"github.com/hackgods/medicare-hms/internal/user"
)

func newService(t *testing.T) *user.Service {
	t.Helper()
	return user.NewService(memstore.New().Users(), auth.NewHasher(bcrypt.MinCost), logging.Discard())
}

func register(t *testing.T, svc *user.Service, email string) *user.User {
	t.Helper()
	u, err := svc.Register(context.Background(), user.RegisterInput{
		Email:     email,
		Password:  "secret1",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	return u
}

func TestRegister_DefaultsToUserRoleAndHashes(t *testing.T) {
	svc := newService(t)

	u := register(t, svc, "  Jane@Example.COM ")

	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, user.RoleUser, u.Role)
	assert.NotEqual(t, "secret1", u.PasswordDigest)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newService(t)
	register(t, svc, "jane@example.com")

	_, err := svc.Register(context.Background(), user.RegisterInput{
		Email: "JANE@example.com", Password: "secret1", FirstName: "J", LastName: "D",
	})
	require.ErrorIs(t, err, user.ErrEmailTaken)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "Email already exists", apperr.Message(err))
}

func TestRegister_Validation(t *testing.T) {
	svc := newService(t)

	cases := []struct {
		name string
		in   user.RegisterInput
	}{
		{"bad email", user.RegisterInput{Email: "nope", Password: "secret1", FirstName: "a", LastName: "b"}},
		{"display name email", user.RegisterInput{Email: "Jane <j@x.io>", Password: "secret1", FirstName: "a", LastName: "b"}},
		{"short password", user.RegisterInput{Email: "a@b.io", Password: "12345", FirstName: "a", LastName: "b"}},
		{"password over 72 bytes", user.RegisterInput{Email: "a@b.io", Password: strings.Repeat("é", 40), FirstName: "a", LastName: "b"}},
		{"blank first name", user.RegisterInput{Email: "a@b.io", Password: "secret1", FirstName: "  ", LastName: "b"}},
		{"missing last name", user.RegisterInput{Email: "a@b.io", Password: "secret1", FirstName: "a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newService(t)
	registered := register(t, svc, "jane@example.com")

	u, err := svc.Authenticate(context.Background(), "JANE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	_, err = svc.Authenticate(context.Background(), "jane@example.com", "wrong-pass")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "ghost@example.com", "secret1")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestCreateAdmin_RequiresAdminCaller(t *testing.T) {
	svc := newService(t)
	patient := register(t, svc, "pat@example.com")

	_, _, err := svc.CreateAdmin(context.Background(), patient, user.AdminInput{
		Email: "boss@example.com", FirstName: "B", LastName: "S",
	})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, _, err = svc.CreateAdmin(context.Background(), nil, user.AdminInput{
		Email: "boss@example.com", FirstName: "B", LastName: "S",
	})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestCreateAdmin_GeneratesPassword(t *testing.T) {
	svc := newService(t)
	root, err := svc.Provision(context.Background(), user.ProvisionInput{
		Email: "root@example.com", Password: "rootpass", FirstName: "R", LastName: "T", Role: user.RoleAdmin,
	})
	require.NoError(t, err)

	admin, temp, err := svc.CreateAdmin(context.Background(), root, user.AdminInput{
		Email: "boss@example.com", FirstName: "B", LastName: "S",
	})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, admin.Role)
	assert.GreaterOrEqual(t, len(temp), user.MinPasswordLength)

	signedIn, err := svc.Authenticate(context.Background(), "boss@example.com", temp)
	require.NoError(t, err)
	assert.True(t, signedIn.IsAdmin())
}

func TestCreateAdmin_ExplicitPasswordNotEchoed(t *testing.T) {
	svc := newService(t)
	root, err := svc.Provision(context.Background(), user.ProvisionInput{
		Email: "root@example.com", Password: "rootpass", FirstName: "R", LastName: "T", Role: user.RoleAdmin,
	})
	require.NoError(t, err)

	_, temp, err := svc.CreateAdmin(context.Background(), root, user.AdminInput{
		Email: "boss@example.com", FirstName: "B", LastName: "S", Password: "chosen-pass",
	})
	require.NoError(t, err)
	assert.Empty(t, temp)
}

func TestPasswordByteLimit(t *testing.T) {
	svc := newService(t)
	root, err := svc.Provision(context.Background(), user.ProvisionInput{
		Email: "root@example.com", Password: "rootpass", FirstName: "R", LastName: "T", Role: user.RoleAdmin,
	})
	require.NoError(t, err)

	atLimit := strings.Repeat("a", user.MaxPasswordBytes)
	_, err = svc.Register(context.Background(), user.RegisterInput{
		Email: "limit@example.com", Password: atLimit, FirstName: "L", LastName: "M",
	})
	require.NoError(t, err)

	// 40 characters, 80 bytes
	wide := strings.Repeat("é", 40)
	_, _, err = svc.CreateAdmin(context.Background(), root, user.AdminInput{
		Email: "boss@example.com", FirstName: "B", LastName: "S", Password: wide,
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.NotErrorIs(t, err, auth.ErrCredential)

	_, err = svc.Provision(context.Background(), user.ProvisionInput{
		Email: "ops@example.com", Password: wide, FirstName: "O", LastName: "P", Role: user.RoleUser,
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestProvision_RejectsUnknownRole(t *testing.T) {
	svc := newService(t)

	_, err := svc.Provision(context.Background(), user.ProvisionInput{
		Email: "x@example.com", Password: "secret1", FirstName: "X", LastName: "Y", Role: "superuser",
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestGet_NotFound(t *testing.T) {
	svc := newService(t)
	u := register(t, svc, "jane@example.com")

	got, err := svc.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestFullName(t *testing.T) {
	u := &user.User{FirstName: "Alice", LastName: "Smith"}
	assert.Equal(t, "Alice Smith", u.FullName())
}
