package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT("hr@acme.io", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "hr@acme.io", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTExpired(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT("hr@acme.io", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTRejectsForeignSecretAndAlgorithm(t *testing.T) {
	SetJWTSecret("test-secret")

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		Email:            "hr@acme.io",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := other.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = ValidateJWT(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, JWTClaims{
		Email:            "hr@acme.io",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err = hs512.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ValidateJWT(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ValidateJWT("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = ValidateJWT("")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
