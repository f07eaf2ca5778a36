// middleware/jwt_middleware_test.go
package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	access, refresh, err := GenerateJWT("user-1", "jordan@example.com", "employee")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "jordan@example.com", claims.Email)
	assert.Equal(t, "employee", claims.Role)
}

func TestGenerateJWTWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, _, err := GenerateJWT("user-1", "jordan@example.com", "employee")
	assert.Error(t, err)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	access, _, err := GenerateJWT("user-1", "jordan@example.com", "employee")
	require.NoError(t, err)

	_, err = ParseToken(access + "x")
	assert.Error(t, err)
}

func TestRevokeTokenInMemory(t *testing.T) {
	UseRevocationStore(nil)

	token := "opaque-token-value"
	assert.False(t, IsTokenRevoked(token))

	require.NoError(t, RevokeToken(token, time.Now().Add(time.Hour)))
	assert.True(t, IsTokenRevoked(token))
}
