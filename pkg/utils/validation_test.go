package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	got, err := ValidateURL("  http://localhost:8080/ ")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", got)

	for _, raw := range []string{"", "   ", "localhost:8080", "ftp://host", "http://"} {
		_, err := ValidateURL(raw)
		assert.Error(t, err, raw)
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("ann@example.com"))
	assert.True(t, IsValidEmail(" ann@example.com "))
	assert.False(t, IsValidEmail(""))
	assert.False(t, IsValidEmail("ann"))
	assert.False(t, IsValidEmail("ann@"))
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("13800138000"))
	assert.True(t, IsValidPhone("19912345678"))
	assert.False(t, IsValidPhone(""))
	assert.False(t, IsValidPhone("12800138000"))
	assert.False(t, IsValidPhone("1380013800"))
	assert.False(t, IsValidPhone("+8613800138000"))
}
