package util

import (
	"testing"
	"time"

	"visaprep_backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret-0123456789abcdef"

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "an@example.com", IsPremium: true, LanguageCode: "vi"}
	user.ID = 42

	token, err := GenerateJWT(user, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "an@example.com", claims.Email)
	assert.True(t, claims.IsPremium)
	assert.Equal(t, "vi", claims.LanguageCode)
}

func TestParseJWTRejectsBadSecret(t *testing.T) {
	user := &model.User{Email: "an@example.com"}
	user.ID = 1

	token, err := GenerateJWT(user, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "another-secret-another-secret-xx")
	assert.Error(t, err)
}

func TestParseJWTRejectsNonHMACAlgorithm(t *testing.T) {
	claims := &Claims{UserID: 1, Email: "an@example.com"}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseJWT(signed, testSecret)
	assert.Error(t, err)
}

func TestParseJWTRejectsExpired(t *testing.T) {
	user := &model.User{Email: "an@example.com"}
	user.ID = 1

	token, err := GenerateJWT(user, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, testSecret)
	assert.Error(t, err)
}
