package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims represents the bearer token minted by the external auth
// service. This backend verifies signatures and reads the identity plus the
// is-admin flag; it never issues tokens of its own.
type AccessTokenClaims struct {
	UserID  uuid.UUID `json:"user_id"`
	IsAdmin bool      `json:"is_admin"`
	jwt.RegisteredClaims
}
