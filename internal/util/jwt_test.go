package util

import (
	"testing"
	"time"

	"github.com/imanoela-sketch/apphistomed/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	secret := "segredo-de-teste-bastante-comprido"
	user := &model.User{
		ID:    "u1",
		Name:  "Ana Souza",
		Email: "ana@exemplo.com",
		Role:  model.Student,
	}

	token, err := GenerateJWT(user, secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, model.Student, claims.Role)
	assert.Equal(t, "ana@exemplo.com", claims.Email)
}

func TestJWTRejections(t *testing.T) {
	secret := "segredo-de-teste-bastante-comprido"
	user := &model.User{ID: "u1", Role: model.Admin}

	t.Run("segredo errado", func(t *testing.T) {
		token, err := GenerateJWT(user, secret, time.Hour)
		require.NoError(t, err)
		_, err = ParseJWT(token, "outro-segredo-igualmente-comprido")
		assert.Error(t, err)
	})

	t.Run("token expirado", func(t *testing.T) {
		token, err := GenerateJWT(user, secret, -time.Minute)
		require.NoError(t, err)
		_, err = ParseJWT(token, secret)
		assert.Error(t, err)
	})

	t.Run("lixo", func(t *testing.T) {
		_, err := ParseJWT("não.é.jwt", secret)
		assert.Error(t, err)
	})
}
