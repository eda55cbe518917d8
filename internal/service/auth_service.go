package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/imanoela-sketch/apphistomed/internal/config"
	"github.com/imanoela-sketch/apphistomed/internal/model"
	"github.com/imanoela-sketch/apphistomed/internal/repository"
	"github.com/imanoela-sketch/apphistomed/internal/util"
	"github.com/imanoela-sketch/apphistomed/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthProvider autentica estudantes por e-mail/senha. A implementação
// padrão delega ao Supabase; "local" usa a tabela de contas no MySQL.
type AuthProvider interface {
	SignUp(ctx context.Context, name, email, password string) (confirmed bool, err error)
	SignIn(ctx context.Context, email, password string) (id, name string, err error)
}

// LocalAuthProvider guarda contas com bcrypt no banco local. Útil em
// desenvolvimento e em instalações sem projeto Supabase.
type LocalAuthProvider struct {
	Users *repository.UserRepository
}

func (p *LocalAuthProvider) SignUp(ctx context.Context, name, email, password string) (bool, error) {
	exists, err := p.Users.ExistsByEmail(email)
	if err != nil {
		return false, err
	}
	if exists {
		return false, util.ErrEmailRegistered
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	account := &model.Account{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	if err := p.Users.Create(account); err != nil {
		return false, err
	}
	// contas locais não exigem confirmação de e-mail
	return true, nil
}

func (p *LocalAuthProvider) SignIn(ctx context.Context, email, password string) (string, string, error) {
	account, err := p.Users.FindByEmail(email)
	if err != nil {
		return "", "", err
	}
	if account == nil {
		return "", "", util.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)) != nil {
		return "", "", util.ErrInvalidCredentials
	}
	return account.ID, account.Name, nil
}

// SignupResult diz se o aluno já pode entrar ou precisa confirmar o
// e-mail primeiro.
type SignupResult struct {
	Confirmed bool   `json:"confirmed"`
	Message   string `json:"message"`
}

// LoginResult carrega a identidade e o token de sessão.
type LoginResult struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// AuthService valida credenciais, emite tokens JWT e mantém a sessão
// corrente de cada usuário no KV store.
type AuthService struct {
	cfg      *config.Config
	provider AuthProvider
	store    *repository.KVStore
	logs     *StudentLogService
}

func NewAuthService(cfg *config.Config, provider AuthProvider, store *repository.KVStore, logs *StudentLogService) *AuthService {
	return &AuthService{cfg: cfg, provider: provider, store: store, logs: logs}
}

// Signup valida e cadastra um estudante. As mensagens seguem o fluxo de
// confirmação de e-mail do provedor.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*SignupResult, *LoginResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || strings.TrimSpace(password) == "" {
		return nil, nil, util.NewValidationError("Por favor, preencha nome, e-mail e senha.")
	}
	if !strings.Contains(email, "@") {
		return nil, nil, util.NewValidationError("Por favor, insira um e-mail válido.")
	}
	if len(password) < 6 {
		return nil, nil, util.NewValidationError("A senha deve ter pelo menos 6 caracteres.")
	}

	confirmed, err := s.provider.SignUp(ctx, name, email, password)
	if err != nil {
		return nil, nil, err
	}
	if !confirmed {
		return &SignupResult{
			Confirmed: false,
			Message:   "Cadastro criado! Agora confirme o e-mail (veja a caixa de entrada/Spam) para poder entrar.",
		}, nil, nil
	}

	// confirmação desligada: o aluno entra direto
	login, err := s.Login(ctx, email, password)
	if err != nil {
		return &SignupResult{Confirmed: true, Message: "Cadastro criado. Faça login para entrar."}, nil, nil
	}
	return &SignupResult{Confirmed: true, Message: "Cadastro criado!"}, login, nil
}

// Login autentica um estudante, registra o acesso no histórico e abre a
// sessão.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, util.NewValidationError("Por favor, preencha e-mail e senha.")
	}
	if !strings.Contains(email, "@") {
		return nil, util.NewValidationError("Por favor, insira um e-mail válido.")
	}

	id, name, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "Aluno"
	}

	user := model.User{
		ID:        id,
		Name:      name,
		Email:     email,
		Role:      model.Student,
		CreatedAt: time.Now(),
	}

	s.logs.Append(ctx, user.Name, user.Email)

	return s.openSession(ctx, user)
}

// AdminLogin valida a senha compartilhada do administrador. A identidade
// do admin é fixa e não passa pelo provedor de estudantes.
func (s *AuthService) AdminLogin(ctx context.Context, password string) (*LoginResult, error) {
	if strings.TrimSpace(password) == "" {
		return nil, util.NewValidationError("Digite a senha do administrador.")
	}
	expected := s.cfg.Auth.AdminPassword
	if expected == "" ||
		subtle.ConstantTimeCompare([]byte(password), []byte(expected)) != 1 {
		return nil, util.ErrInvalidCredentials
	}

	user := model.User{
		ID:        "admin",
		Name:      "Administrador",
		Email:     "admin@local",
		Role:      model.Admin,
		CreatedAt: time.Now(),
	}
	return s.openSession(ctx, user)
}

// Logout encerra a sessão do usuário.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, repository.SessionKey(userID))
}

// Profile devolve a sessão corrente gravada no KV store.
func (s *AuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	if err := s.store.Load(ctx, repository.SessionKey(userID), &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, util.ErrSessionExpired
	}
	return &user, nil
}

func (s *AuthService) openSession(ctx context.Context, user model.User) (*LoginResult, error) {
	if err := s.store.Save(ctx, repository.SessionKey(user.ID), user); err != nil {
		// sessão cheia não impede o login; o token ainda identifica o usuário
		logger.Log.Warn("falha ao gravar sessão no KV store",
			zap.String("user", user.ID),
			zap.Error(err))
	}

	token, err := util.GenerateJWT(&user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}
