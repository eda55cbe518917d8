package controller

import (
	"errors"

	"github.com/imanoela-sketch/apphistomed/internal/service"
	"github.com/imanoela-sketch/apphistomed/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// SignupRequest dados de cadastro de estudante
// swagger:model SignupRequest
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest credenciais de estudante
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLoginRequest senha compartilhada do administrador
// swagger:model AdminLoginRequest
type AdminLoginRequest struct {
	Password string `json:"password"`
}

// Signup godoc
// @Summary Cadastrar estudante
// @Description Cria a conta de um estudante; pode exigir confirmação de e-mail
// @Tags Autenticação
// @Accept  json
// @Produce  json
// @Param   body body SignupRequest true "Dados de cadastro"
// @Success 201 {object} util.Response "Conta criada"
// @Failure 400 {object} util.Response "Dados inválidos"
// @Failure 409 {object} util.Response "E-mail já cadastrado"
// @Router /api/auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, login, err := c.AuthService.Signup(ctx.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case util.IsValidationError(err):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrEmailRegistered):
			util.Error(ctx, 409, util.ErrEmailRegistered.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{
		"confirmed": result.Confirmed,
		"message":   result.Message,
		"session":   login,
	})
}

// Login godoc
// @Summary Login de estudante
// @Description Autentica por e-mail e senha e registra o acesso no histórico
// @Tags Autenticação
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "Credenciais"
// @Success 200 {object} util.Response{data=service.LoginResult} "Sessão aberta"
// @Failure 400 {object} util.Response "Dados inválidos"
// @Failure 401 {object} util.Response "Credenciais inválidas ou e-mail não confirmado"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case util.IsValidationError(err):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrEmailNotConfirmed):
			util.Error(ctx, 401, "Você precisa confirmar seu e-mail antes de entrar. Verifique a caixa de entrada/Spam.")
		case errors.Is(err, util.ErrInvalidCredentials):
			util.Error(ctx, 401, util.ErrInvalidCredentials.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// AdminLogin godoc
// @Summary Login do administrador
// @Description Autentica o administrador pela senha compartilhada
// @Tags Autenticação
// @Accept  json
// @Produce  json
// @Param   body body AdminLoginRequest true "Senha do administrador"
// @Success 200 {object} util.Response{data=service.LoginResult} "Sessão aberta"
// @Failure 400 {object} util.Response "Senha ausente"
// @Failure 401 {object} util.Response "Senha incorreta"
// @Router /api/auth/admin [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.AdminLogin(ctx.Request.Context(), req.Password)
	if err != nil {
		switch {
		case util.IsValidationError(err):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidCredentials):
			util.Error(ctx, 401, "Senha de administrador incorreta.")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// Logout godoc
// @Summary Encerrar sessão
// @Tags Autenticação
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response "Sessão encerrada"
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	if err := c.AuthService.Logout(ctx.Request.Context(), user.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Profile godoc
// @Summary Perfil do usuário logado
// @Tags Autenticação
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User} "Sessão corrente"
// @Failure 401 {object} util.Response "Sessão expirada"
// @Router /api/auth/profile [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	profile, err := c.AuthService.Profile(ctx.Request.Context(), user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrSessionExpired) {
			util.Error(ctx, 401, util.ErrSessionExpired.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}
