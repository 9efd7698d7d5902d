package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// KitchenClaims are the claims the backend puts in the kitchen's token.
type KitchenClaims struct {
	KitchenID   string `json:"kitchenId"`
	KitchenName string `json:"kitchenName"`
	Phone       string `json:"phone"`
	jwt.RegisteredClaims
}

// ParseKitchenToken decodes the backend-issued token for its claims. The
// client holds no signing secret; verification is the server's job. Expiry
// is still checked locally so a stale session re-authenticates instead of
// issuing doomed requests.
func ParseKitchenToken(tokenString string) (*KitchenClaims, error) {
	claims := &KitchenClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, ErrExpiredToken
	}
	if claims.KitchenID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
