package jwt

import "github.com/golang-jwt/jwt/v5"

// PlayerClaims identifies the caller. Subject is the player's UUID.
type PlayerClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}

// PlayerID returns the subject claim.
func (c *PlayerClaims) PlayerID() string {
	return c.Subject
}
