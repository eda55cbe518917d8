package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/imanoela-sketch/apphistomed/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func supabaseStub(t *testing.T, handler http.HandlerFunc) *SupabaseClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSupabaseClient(srv.URL, "anon-key")
}

func TestSupabaseSignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("envia a anon key e os metadados", func(t *testing.T) {
		client := supabaseStub(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/signup", r.URL.Path)
			assert.Equal(t, "anon-key", r.Header.Get("apikey"))

			var body supabaseCredentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ana@exemplo.com", body.Email)
			assert.Equal(t, "Ana", body.Data["name"])

			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "tok",
				"user":         map[string]interface{}{"id": "u1", "email": body.Email},
			})
		})

		confirmed, err := client.SignUp(ctx, "Ana", "ana@exemplo.com", "123456")
		require.NoError(t, err)
		assert.True(t, confirmed)
	})

	t.Run("sem sessão significa confirmação pendente", func(t *testing.T) {
		client := supabaseStub(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"user": map[string]interface{}{"id": "u1"},
			})
		})

		confirmed, err := client.SignUp(ctx, "Ana", "ana@exemplo.com", "123456")
		require.NoError(t, err)
		assert.False(t, confirmed)
	})

	t.Run("e-mail já cadastrado", func(t *testing.T) {
		client := supabaseStub(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{
				"error_code": "user_already_exists",
				"msg":        "User already registered",
			})
		})

		_, err := client.SignUp(ctx, "Ana", "ana@exemplo.com", "123456")
		assert.ErrorIs(t, err, util.ErrEmailRegistered)
	})
}

func TestSupabaseSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("sucesso devolve id e nome dos metadados", func(t *testing.T) {
		client := supabaseStub(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/token", r.URL.Path)
			assert.Equal(t, "password", r.URL.Query().Get("grant_type"))

			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "tok",
				"user": map[string]interface{}{
					"id":            "u1",
					"email":         "ana@exemplo.com",
					"user_metadata": map[string]interface{}{"name": "Ana Souza"},
				},
			})
		})

		id, name, err := client.SignIn(ctx, "ana@exemplo.com", "123456")
		require.NoError(t, err)
		assert.Equal(t, "u1", id)
		assert.Equal(t, "Ana Souza", name)
	})

	t.Run("credenciais inválidas", func(t *testing.T) {
		client := supabaseStub(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"error_description": "Invalid login credentials",
			})
		})

		_, _, err := client.SignIn(ctx, "ana@exemplo.com", "errada")
		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	})

	t.Run("e-mail não confirmado", func(t *testing.T) {
		client := supabaseStub(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"error_code": "email_not_confirmed",
				"msg":        "Email not confirmed",
			})
		})

		_, _, err := client.SignIn(ctx, "ana@exemplo.com", "123456")
		assert.ErrorIs(t, err, util.ErrEmailNotConfirmed)
	})
}
