package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, h.Compare(hash, "secret1"))
	assert.False(t, h.Compare(hash, "secret2"))
	assert.False(t, h.Compare("not-a-hash", "secret1"))

	again, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "each hash carries its own salt")
}

func TestNewPasswordHasherCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).cost)
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(bcrypt.MinCost).cost)
}
