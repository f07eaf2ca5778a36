// utils/password_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, CheckPassword("secret123", hash))
	assert.Error(t, CheckPassword("wrong", hash))
}

func TestGenerateTempPassword(t *testing.T) {
	first, err := GenerateTempPassword()
	require.NoError(t, err)
	assert.Len(t, first, 16)

	second, err := GenerateTempPassword()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
