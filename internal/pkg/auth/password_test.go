package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1234")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1234", hash)

	assert.True(t, CheckPassword("secret1234", hash))
	assert.False(t, CheckPassword("wrongpass1", hash))
	assert.False(t, CheckPassword("secret1234", "not-a-hash"))
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "secret1234", nil},
		{"too short", "ab1", ErrPasswordTooShort},
		{"letters only", "abcdefgh", ErrPasswordTooWeak},
		{"digits only", "12345678", ErrPasswordTooWeak},
		{"unicode letters with digit", "pässwörd1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
