package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload. Only the username is bound; validity is
// purely signature based.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies session tokens with HS256.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret []byte) *TokenCodec {
	return &TokenCodec{secret: secret}
}

// Encode returns a signed token for username.
func (c *TokenCodec) Encode(username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: username})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies token and returns the username it binds. Any structural,
// algorithm or signature failure yields ok == false.
func (c *TokenCodec) Decode(token string) (username string, ok bool) {
	if token == "" {
		return "", false
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenMalformed) {
			authLog().Debug("rejected session token", "error", err)
		}
		return "", false
	}
	if !parsed.Valid || claims.Username == "" {
		return "", false
	}

	return claims.Username, true
}
