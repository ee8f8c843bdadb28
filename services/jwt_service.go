package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"service-connect-server/config"
	"service-connect-server/types"
)

// JWTService issues and validates actor tokens. The same token is sent as a
// bearer header by users and as a session cookie by workers and admins.
type JWTService struct {
	secret []byte
	expiry time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret: []byte(cfg.Secret),
		expiry: time.Duration(cfg.ExpiryHours) * time.Hour,
	}
}

// Expiry is the lifetime of issued tokens
func (js *JWTService) Expiry() time.Duration {
	return js.expiry
}

// GenerateToken signs a token for the actor
func (js *JWTService) GenerateToken(actor types.Actor) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		ActorID: actor.ID,
		Role:    actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(js.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "service-connect-server",
			Subject:   actor.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(js.secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ValidateToken verifies a token and returns the actor it carries
func (js *JWTService) ValidateToken(tokenString string) (types.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &types.Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return js.secret, nil
	})
	if err != nil {
		return types.Actor{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*types.Claims)
	if !ok || !token.Valid {
		return types.Actor{}, fmt.Errorf("%w: invalid token claims", ErrUnauthorized)
	}
	if !claims.Role.Valid() || claims.ActorID == 0 {
		return types.Actor{}, fmt.Errorf("%w: invalid actor in token", ErrUnauthorized)
	}
	return claims.Actor(), nil
}
