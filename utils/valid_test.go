// utils/valid_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello  "))
	assert.Equal(t, "&lt;script&gt;", SanitizeInput("<script>"))
	assert.Equal(t, "ab", SanitizeInput("a\x00b"))
}

func TestSanitizeEmail(t *testing.T) {
	email, err := SanitizeEmail("  Jordan@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "jordan@example.com", email)

	_, err = SanitizeEmail("not-an-email")
	assert.Error(t, err)

	_, err = SanitizeEmail("")
	assert.Error(t, err)
}

func TestSanitizePhone(t *testing.T) {
	phone, err := SanitizePhone("(202) 555-0147")
	require.NoError(t, err)
	assert.Equal(t, "+2025550147", phone)

	phone, err = SanitizePhone("+1 202 555 0147")
	require.NoError(t, err)
	assert.Equal(t, "+12025550147", phone)

	// Empty is allowed, callers decide whether the field is required.
	phone, err = SanitizePhone("  ")
	require.NoError(t, err)
	assert.Equal(t, "", phone)

	_, err = SanitizePhone("123")
	assert.Error(t, err)
}
