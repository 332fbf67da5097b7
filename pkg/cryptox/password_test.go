package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerifyPassword(t *testing.T) {
	phc, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(phc, "$argon2id$v=19$"))

	require.NoError(t, VerifyPassword("correct horse battery staple", phc))
	assert.ErrorIs(t, VerifyPassword("wrong password", phc), ErrHashMismatch)
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	a, err := HashPassword("same input")
	require.NoError(t, err)
	b, err := HashPassword("same input")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	for _, phc := range []string{
		"",
		"plainly not a hash",
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$!!$aGFzaA",
	} {
		err := VerifyPassword("anything", phc)
		require.Error(t, err, "hash %q", phc)
		assert.NotErrorIs(t, err, ErrHashMismatch)
	}
}
