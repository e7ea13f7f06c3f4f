package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeySession(t *testing.T) {
	s := NewKeySession("ada", "secret")
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, User{Name: "ada"}, s.User())
	assert.Equal(t, "secret", s.Key())
	assert.NoError(t, Require(s))

	s.Logout()
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Key())
	assert.Equal(t, "ada", s.User().Name)
	assert.ErrorIs(t, Require(s), ErrUnauthenticated)
}

func TestKeySession_NoKey(t *testing.T) {
	assert.False(t, NewKeySession("ada", "").IsAuthenticated())
}

func TestRequire(t *testing.T) {
	assert.ErrorIs(t, Require(nil), ErrUnauthenticated)
	assert.ErrorIs(t, Require(Anonymous{}), ErrUnauthenticated)
}
