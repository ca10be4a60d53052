package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(4) // minimum cost keeps the test fast

	hash, err := hasher.Hash("Abcdefg1!")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Abcdefg1!", hash)

	assert.True(t, hasher.Check("Abcdefg1!", hash))
	assert.False(t, hasher.Check("wrong-password", hash))
}

func TestBcryptHasher_SaltsDiffer(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(4)

	first, err := hasher.Hash("Abcdefg1!")
	require.NoError(t, err)
	second, err := hasher.Hash("Abcdefg1!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(99)

	hash, err := hasher.Hash("Abcdefg1!")
	require.NoError(t, err)
	assert.True(t, hasher.Check("Abcdefg1!", hash))
}
