package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "secret123", hash)

	// Два хеша одного пароля различаются из-за соли
	hash2, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("secret124", hash))
	assert.False(t, CheckPasswordHash("", hash))
	assert.False(t, CheckPasswordHash("secret123", "not-a-hash"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("123456", 6))
	assert.NoError(t, ValidatePassword("1234567", 6))
	assert.Error(t, ValidatePassword("12345", 6))
	assert.Error(t, ValidatePassword("", 6))
}

func TestGenerateRandomToken(t *testing.T) {
	token := GenerateRandomToken()
	// 32 байта в hex
	assert.Len(t, token, 64)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok := GenerateRandomToken()
		assert.False(t, seen[tok], "токены не должны повторяться")
		seen[tok] = true
	}
}
