package jwtutil

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/FlexEdwin/toolfinder-app/pkg/config"
)

var signingKey []byte

// UserClaims represents the JWT claims issued by the external auth provider.
// This service performs no authorization logic of its own; it only validates
// the token and exposes the role to the admin middleware.
type UserClaims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims carry the admin role.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == "admin"
}

// Initialize sets the signing key used for token validation
func Initialize(cfg *config.JWTConfig) {
	signingKey = []byte(cfg.SigningKey)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
