package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:   "test-secret",
		TokenIssuer: "sso.test",
		Audience:    "siswalink",
	})
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateToken("acc-1", "budi@example.com", "STUDENT", time.Minute)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, "acc-1", claims.AccountID())
	assert.Equal(t, "budi@example.com", claims.Email)
	assert.Equal(t, "STUDENT", claims.Role)
	assert.Equal(t, "sso.test", claims.Issuer)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateToken("acc-1", "budi@example.com", "STUDENT", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := newTestService()

	other := NewJWTService(JWTConfig{SecretKey: "other-secret", TokenIssuer: "sso.test", Audience: "siswalink"})
	token, err := other.GenerateToken("acc-1", "", "STUDENT", time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ExtractBearerToken("Basic abc")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
