package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("9876543210"))
	assert.False(t, IsValidPhone("12345"))
	assert.False(t, IsValidPhone("98765432101"))
	assert.False(t, IsValidPhone("987654321a"))
	assert.False(t, IsValidPhone(""))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("user@gmail.com"))
	assert.True(t, IsValidEmail("  User@Gmail.COM  "))
	assert.False(t, IsValidEmail("a@yahoo.com"))
	assert.False(t, IsValidEmail("gmail.com"))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("Abcdef1234"))
	assert.False(t, IsValidPassword("short1"))
	assert.False(t, IsValidPassword("alllowercase1"))
	assert.False(t, IsValidPassword("alllower12"), "no uppercase")
	assert.False(t, IsValidPassword("ALLUPPER12"), "no lowercase")
	assert.False(t, IsValidPassword("NoDigitsAb"), "no digit")
	assert.False(t, IsValidPassword("Abcdef123"), "nine characters")
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateOTP()
		assert.NoError(t, err)
		assert.Len(t, code, 6)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9')
		}
	}
}
