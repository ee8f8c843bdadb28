package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-connect-server/config"
	"service-connect-server/types"
)

func TestJWTService_RoundTrip(t *testing.T) {
	js := NewJWTService(config.JWTConfig{Secret: "test-secret", ExpiryHours: 1})
	actor := types.Actor{ID: 42, Role: types.RoleWorker}

	token, err := js.GenerateToken(actor)
	require.NoError(t, err)

	got, err := js.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestJWTService_Rejects(t *testing.T) {
	js := NewJWTService(config.JWTConfig{Secret: "test-secret", ExpiryHours: 1})
	other := NewJWTService(config.JWTConfig{Secret: "other-secret", ExpiryHours: 1})
	expired := NewJWTService(config.JWTConfig{Secret: "test-secret", ExpiryHours: -1})

	foreign, err := other.GenerateToken(types.Actor{ID: 1, Role: types.RoleUser})
	require.NoError(t, err)
	_, err = js.ValidateToken(foreign)
	assert.ErrorIs(t, err, ErrUnauthorized)

	old, err := expired.GenerateToken(types.Actor{ID: 1, Role: types.RoleUser})
	require.NoError(t, err)
	_, err = js.ValidateToken(old)
	assert.ErrorIs(t, err, ErrUnauthorized)

	bogusRole, err := js.GenerateToken(types.Actor{ID: 1, Role: "root"})
	require.NoError(t, err)
	_, err = js.ValidateToken(bogusRole)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = js.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
