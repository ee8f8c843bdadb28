package types

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims
type Claims struct {
	ActorID uint `json:"actor_id"`
	Role    Role `json:"role"`
	jwt.RegisteredClaims
}

// Actor returns the authenticated actor carried by the claims
func (c *Claims) Actor() Actor {
	return Actor{ID: c.ActorID, Role: c.Role}
}
