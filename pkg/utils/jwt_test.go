package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWTToken("staff-1", "caissier1", "billing", "clinique-kin", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", claims.IDStaff)
	assert.Equal(t, "caissier1", claims.Username)
	assert.Equal(t, "billing", claims.Role)
	assert.Equal(t, "clinique-kin", claims.TenantSlug)
}

func TestValidateExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWTToken("staff-1", "caissier1", "billing", "", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = ValidateJWTToken(token)
	assert.Error(t, err)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateJWTToken("staff-1", "caissier1", "admin", "", time.Now().Add(time.Hour))
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = ValidateJWTToken(token)
	assert.Error(t, err)
}

func TestGenerateTokenMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := GenerateJWTToken("staff-1", "x", "admin", "", time.Now().Add(time.Hour))
	assert.Error(t, err)
}
