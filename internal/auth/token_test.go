package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	iss := NewIssuer("super-secret", time.Hour)
	uid := uuid.New()

	tok, exp, err := iss.Issue(uid)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	c, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, uid, c.UserUUID())
	assert.NotEmpty(t, c.ID)
}

func TestVerify_TokenIDsDiffer(t *testing.T) {
	t.Parallel()

	iss := NewIssuer("k", time.Hour)
	uid := uuid.New()
	a, _, err := iss.Issue(uid)
	require.NoError(t, err)
	b, _, err := iss.Issue(uid)
	require.NoError(t, err)

	ca, err := iss.Verify(a)
	require.NoError(t, err)
	cb, err := iss.Verify(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	iss := NewIssuer("k", time.Hour)
	tok, _, err := iss.Issue(uuid.New())
	require.NoError(t, err)

	iss.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = iss.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewIssuer("right", time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	_, err = NewIssuer("wrong", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	iss := NewIssuer("k", time.Hour)
	for _, raw := range []string{"", "not.a.jwt", strings.Repeat("a", 40)} {
		_, err := iss.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}

func TestVerify_RejectsNoneAlg(t *testing.T) {
	t.Parallel()

	c := Claims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewIssuer("k", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsNonUUIDSubject(t *testing.T) {
	t.Parallel()

	c := Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewIssuer("k", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
