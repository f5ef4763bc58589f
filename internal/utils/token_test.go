package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestNewSessionToken_ExactTTL(t *testing.T) {
	for _, ttl := range []int{SessionTTLSeconds, SessionTTLLongSeconds} {
		tok, err := NewSessionToken(testSecret, "anna", "contributor", ttl)
		require.NoError(t, err)

		// Decode the raw claims and check exp-iat down to the second.
		parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)
		claims := parsed.Claims.(jwt.MapClaims)
		exp := int64(claims["exp"].(float64))
		iat := int64(claims["iat"].(float64))
		assert.Equal(t, int64(ttl), exp-iat)
		assert.Equal(t, tok.Exp.Unix(), exp)
		assert.Equal(t, tok.IssuedAt.Unix(), iat)
	}
}

func TestVerifySessionToken_RoundTrip(t *testing.T) {
	tok, err := NewSessionToken(testSecret, "anna", "contributor", SessionTTLSeconds)
	require.NoError(t, err)

	claims, err := VerifySessionToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "anna", claims.Username)
	assert.Equal(t, "contributor", claims.Role)
}

func TestVerifySessionToken_WrongSecret(t *testing.T) {
	tok, err := NewSessionToken(testSecret, "anna", "reader", SessionTTLSeconds)
	require.NoError(t, err)

	_, err = VerifySessionToken("another-secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifySessionToken_Expired(t *testing.T) {
	// Issue a token that expired in the past by signing claims by hand.
	now := time.Now().UTC().Add(-2 * time.Hour)
	claims := jwt.MapClaims{
		"sub":  "anna",
		"role": "reader",
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = VerifySessionToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifySessionToken_RejectsUnsignedAlg(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  "anna",
		"role": "contributor",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = VerifySessionToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifySessionToken_Garbage(t *testing.T) {
	_, err := VerifySessionToken(testSecret, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifySessionToken_MissingClaims(t *testing.T) {
	claims := jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = VerifySessionToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
