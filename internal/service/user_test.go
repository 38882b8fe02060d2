package service

import (
	"strings"
	"testing"

	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Email Validation Tests
// =============================================================================

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "user@example.com", false},
		{"valid with subdomain", "user@mail.example.com", false},
		{"valid with plus", "user+tag@example.com", false},
		{"empty email", "", true},
		{"missing at", "userexample.com", true},
		{"multiple at", "user@@example.com", true},
		{"at first position", "@example.com", true},
		{"at last position", "user@", true},
		{"domain without dot", "user@localhost", true},
		{"consecutive dots", "user..name@example.com", true},
		{"too long", strings.Repeat("a", 250) + "@x.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEmail(tt.email)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// =============================================================================
// Password Validation Tests
// =============================================================================

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "correct-horse", false},
		{"exactly minimum length", "12345678", false},
		{"exactly maximum length", strings.Repeat("a", MaxPasswordLength), false},
		{"too short", "1234567", true},
		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxPasswordLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePassword(tt.password)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// =============================================================================
// Session Token Tests
// =============================================================================

func TestGenerateSessionToken(t *testing.T) {
	token, err := generateSessionToken()
	require.NoError(t, err)

	// 32 random bytes hex-encoded
	assert.Len(t, token, SessionTokenBytes*2)

	// Two tokens should never collide
	other, err := generateSessionToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestHashSessionToken(t *testing.T) {
	hash := hashSessionToken("some-token")

	// SHA-256 hex-encoded is 64 characters
	assert.Len(t, hash, 64)

	// Deterministic
	assert.Equal(t, hash, hashSessionToken("some-token"))

	// Different inputs produce different hashes
	assert.NotEqual(t, hash, hashSessionToken("other-token"))

	// Raw token never appears in the hash
	assert.NotContains(t, hash, "some-token")
}
