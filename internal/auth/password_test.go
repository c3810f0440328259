package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aelexs/listshare-platform/internal/auth"
	"github.com/aelexs/listshare-platform/internal/domain"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.NoError(t, auth.ComparePassword(hash, "hunter2hunter2"))

	err = auth.ComparePassword(hash, "wrong-password")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	second, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	// bcrypt embeds a random salt; equal inputs produce distinct hashes.
	assert.NotEqual(t, first, second)
}

func TestComparePasswordEmptyHash(t *testing.T) {
	// Accounts without credentials (guests) never verify.
	err := auth.ComparePassword("", "anything")
	assert.Error(t, err)
}
