package controller

import (
	"errors"

	"github.com/imanoela-sketch/apphistomed/internal/service"
	"github.com/imanoela-sketch/apphistomed/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// StartQuizRequest tema escolhido para o quiz
// swagger:model StartQuizRequest
type StartQuizRequest struct {
	TopicID string `json:"topicId" binding:"required"`
}

// AnswerRequest índice da alternativa escolhida
// swagger:model AnswerRequest
type AnswerRequest struct {
	Answer int `json:"answer"`
}

// Start godoc
// @Summary Iniciar quiz
// @Description Gera as questões do tema e abre uma sessão de quiz
// @Tags Quiz
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body StartQuizRequest true "Tema do quiz"
// @Success 201 {object} util.Response{data=service.QuizView} "Sessão criada"
// @Failure 404 {object} util.Response "Tópico inexistente"
// @Failure 502 {object} util.Response "Falha na geração das questões"
// @Router /api/quiz [post]
func (c *QuizController) Start(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.QuizService.Start(ctx.Request.Context(), user.UserID, req.TopicID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTopicNotFound):
			util.Error(ctx, 404, util.ErrTopicNotFound.Error())
		case errors.Is(err, util.ErrMalformedResponse):
			util.Error(ctx, 502, "Não foi possível gerar o quiz. Tente novamente.")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, view)
}

// Get godoc
// @Summary Estado da sessão de quiz
// @Tags Quiz
// @Produce  json
// @Security BearerAuth
// @Param   sessionId path string true "ID da sessão"
// @Success 200 {object} util.Response{data=service.QuizView}
// @Failure 404 {object} util.Response "Sessão inexistente"
// @Router /api/quiz/{sessionId} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.QuizService.Get(ctx.Param("sessionId"), user.UserID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, view)
}

// Answer godoc
// @Summary Responder a questão atual
// @Description Registra a resposta e revela o gabarito; a pontuação conta só no primeiro envio
// @Tags Quiz
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   sessionId path string true "ID da sessão"
// @Param   body body AnswerRequest true "Alternativa escolhida (0-3)"
// @Success 200 {object} util.Response{data=service.QuizView}
// @Failure 400 {object} util.Response "Alternativa fora do intervalo"
// @Failure 404 {object} util.Response "Sessão inexistente"
// @Failure 409 {object} util.Response "Quiz já encerrado"
// @Router /api/quiz/{sessionId}/answer [post]
func (c *QuizController) Answer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.QuizService.Answer(ctx.Param("sessionId"), user.UserID, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidAnswer):
			util.BadRequest(ctx, "Alternativa inválida.")
		case errors.Is(err, util.ErrQuizFinished):
			util.Error(ctx, 409, "O quiz já foi encerrado.")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}

// Advance godoc
// @Summary Avançar para a próxima questão
// @Description Questão não respondida conta como errada; na última questão a sessão vai para o resultado
// @Tags Quiz
// @Produce  json
// @Security BearerAuth
// @Param   sessionId path string true "ID da sessão"
// @Success 200 {object} util.Response{data=service.QuizView}
// @Failure 404 {object} util.Response "Sessão inexistente"
// @Failure 409 {object} util.Response "Quiz já encerrado"
// @Router /api/quiz/{sessionId}/advance [post]
func (c *QuizController) Advance(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.QuizService.Advance(ctx.Param("sessionId"), user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrQuizFinished):
			util.Error(ctx, 409, "O quiz já foi encerrado.")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}

// Reset godoc
// @Summary Descartar a sessão de quiz
// @Tags Quiz
// @Produce  json
// @Security BearerAuth
// @Param   sessionId path string true "ID da sessão"
// @Success 200 {object} util.Response{data=service.QuizView} "Estado de seleção de tema"
// @Failure 404 {object} util.Response "Sessão inexistente"
// @Router /api/quiz/{sessionId} [delete]
func (c *QuizController) Reset(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.QuizService.Reset(ctx.Param("sessionId"), user.UserID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, view)
}
