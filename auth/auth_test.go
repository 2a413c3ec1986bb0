package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	in := Session{UserID: "u-1", Username: "nadine", Role: "admin"}

	token, err := IssueToken(in)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	out, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.True(t, out.IsAdmin())
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := IssueToken(Session{UserID: "u-1", Username: "nadine", Role: "user"})
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second-secret")
	_, err = VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("geheim123")
	require.NoError(t, err)
	assert.NotEqual(t, "geheim123", hash)

	assert.True(t, CheckPassword(hash, "geheim123"))
	assert.False(t, CheckPassword(hash, "falsch"))
	assert.False(t, CheckPassword("not-a-hash", "geheim123"))
}

func TestSessionContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := Session{UserID: "u-2", Username: "aushilfe", Role: "user"}
	ctx := NewContext(context.Background(), s)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, s, got)
	assert.False(t, got.IsAdmin())
}
