package service

import (
	"context"
	"testing"
	"time"

	"github.com/imanoela-sketch/apphistomed/internal/config"
	"github.com/imanoela-sketch/apphistomed/internal/model"
	"github.com/imanoela-sketch/apphistomed/internal/repository"
	"github.com/imanoela-sketch/apphistomed/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider simula o provedor de autenticação de estudantes.
type fakeProvider struct {
	confirmed bool
	signUpErr error
	signInErr error
}

func (p *fakeProvider) SignUp(ctx context.Context, name, email, password string) (bool, error) {
	if p.signUpErr != nil {
		return false, p.signUpErr
	}
	return p.confirmed, nil
}

func (p *fakeProvider) SignIn(ctx context.Context, email, password string) (string, string, error) {
	if p.signInErr != nil {
		return "", "", p.signInErr
	}
	return "uid-123", "Ana Souza", nil
}

func newAuthService(provider AuthProvider) (*AuthService, *StudentLogService) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "chave-de-teste-bem-comprida-para-o-jwt"
	cfg.JWT.ExpireTime = time.Hour
	cfg.Auth.AdminPassword = "senha-do-admin"

	store := repository.NewKVStore(newMemBackend())
	logs := NewStudentLogService(store)
	return NewAuthService(cfg, provider, store, logs), logs
}

func TestSignupValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(&fakeProvider{confirmed: true})

	cases := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"campos vazios", "", "", ""},
		{"sem nome", "", "ana@exemplo.com", "123456"},
		{"e-mail sem arroba", "Ana", "ana.exemplo.com", "123456"},
		{"senha curta", "Ana", "ana@exemplo.com", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Signup(ctx, tc.userName, tc.email, tc.password)
			assert.True(t, util.IsValidationError(err))
		})
	}
}

func TestSignupFlows(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmação pendente não abre sessão", func(t *testing.T) {
		svc, _ := newAuthService(&fakeProvider{confirmed: false})
		result, login, err := svc.Signup(ctx, "Ana", "ana@exemplo.com", "123456")
		require.NoError(t, err)
		assert.False(t, result.Confirmed)
		assert.Contains(t, result.Message, "confirme o e-mail")
		assert.Nil(t, login)
	})

	t.Run("confirmação desligada entra direto", func(t *testing.T) {
		svc, _ := newAuthService(&fakeProvider{confirmed: true})
		result, login, err := svc.Signup(ctx, "Ana", "ana@exemplo.com", "123456")
		require.NoError(t, err)
		assert.True(t, result.Confirmed)
		require.NotNil(t, login)
		assert.NotEmpty(t, login.Token)
		assert.Equal(t, model.Student, login.User.Role)
	})

	t.Run("e-mail duplicado", func(t *testing.T) {
		svc, _ := newAuthService(&fakeProvider{signUpErr: util.ErrEmailRegistered})
		_, _, err := svc.Signup(ctx, "Ana", "ana@exemplo.com", "123456")
		assert.ErrorIs(t, err, util.ErrEmailRegistered)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("credenciais inválidas", func(t *testing.T) {
		svc, _ := newAuthService(&fakeProvider{signInErr: util.ErrInvalidCredentials})
		_, err := svc.Login(ctx, "ana@exemplo.com", "errada")
		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	})

	t.Run("sucesso registra o acesso e abre sessão", func(t *testing.T) {
		svc, logs := newAuthService(&fakeProvider{})
		result, err := svc.Login(ctx, "ana@exemplo.com", "123456")
		require.NoError(t, err)

		assert.Equal(t, "uid-123", result.User.ID)
		assert.Equal(t, "Ana Souza", result.User.Name)
		assert.NotEmpty(t, result.Token)

		entries, err := logs.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "ana@exemplo.com", entries[0].Email)

		profile, err := svc.Profile(ctx, "uid-123")
		require.NoError(t, err)
		assert.Equal(t, "Ana Souza", profile.Name)
	})
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	svc, logs := newAuthService(&fakeProvider{})

	t.Run("senha vazia", func(t *testing.T) {
		_, err := svc.AdminLogin(ctx, "  ")
		assert.True(t, util.IsValidationError(err))
	})

	t.Run("senha errada", func(t *testing.T) {
		_, err := svc.AdminLogin(ctx, "chute")
		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	})

	t.Run("senha certa abre sessão de admin", func(t *testing.T) {
		result, err := svc.AdminLogin(ctx, "senha-do-admin")
		require.NoError(t, err)
		assert.Equal(t, model.Admin, result.User.Role)
		assert.Equal(t, "Administrador", result.User.Name)

		// o admin não entra no histórico de acessos de estudantes
		entries, err := logs.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("sem senha configurada nega tudo", func(t *testing.T) {
		bare, _ := newAuthService(&fakeProvider{})
		bare.cfg.Auth.AdminPassword = ""
		_, err := bare.AdminLogin(ctx, "qualquer")
		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(&fakeProvider{})

	_, err := svc.Login(ctx, "ana@exemplo.com", "123456")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, "uid-123"))
	_, err = svc.Profile(ctx, "uid-123")
	assert.ErrorIs(t, err, util.ErrSessionExpired)
}
