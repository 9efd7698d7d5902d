package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims KitchenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return signed
}

func TestParseKitchenToken_ValidToken(t *testing.T) {
	tokenString := signToken(t, KitchenClaims{
		KitchenID:   "kitchen-1",
		KitchenName: "Main Canteen",
		Phone:       "555-0000",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := ParseKitchenToken(tokenString)

	require.NoError(t, err)
	assert.Equal(t, "kitchen-1", claims.KitchenID)
	assert.Equal(t, "Main Canteen", claims.KitchenName)
	assert.Equal(t, "555-0000", claims.Phone)
}

func TestParseKitchenToken_Expired(t *testing.T) {
	tokenString := signToken(t, KitchenClaims{
		KitchenID: "kitchen-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := ParseKitchenToken(tokenString)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseKitchenToken_MissingKitchenID(t *testing.T) {
	tokenString := signToken(t, KitchenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := ParseKitchenToken(tokenString)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseKitchenToken_Garbage(t *testing.T) {
	_, err := ParseKitchenToken("not-a-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}
