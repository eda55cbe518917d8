package controller

import (
	"errors"

	"github.com/imanoela-sketch/apphistomed/internal/service"
	"github.com/imanoela-sketch/apphistomed/internal/util"

	"github.com/gin-gonic/gin"
)

type LibraryController struct {
	LibraryService *service.LibraryService
}

func NewLibraryController(libraryService *service.LibraryService) *LibraryController {
	return &LibraryController{LibraryService: libraryService}
}

// Topics godoc
// @Summary Catálogo de tópicos
// @Description Lista os tópicos de histologia agrupáveis por categoria
// @Tags Biblioteca
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Topic} "Catálogo"
// @Router /api/topics [get]
func (c *LibraryController) Topics(ctx *gin.Context) {
	util.Success(ctx, c.LibraryService.Topics())
}

// Content godoc
// @Summary Resumo de um tópico
// @Description Gera (ou devolve do cache) o resumo acadêmico em Markdown
// @Tags Biblioteca
// @Produce  json
// @Security BearerAuth
// @Param   topicId path string true "ID do tópico"
// @Success 200 {object} util.Response "Tópico e conteúdo em Markdown"
// @Failure 404 {object} util.Response "Tópico inexistente"
// @Failure 502 {object} util.Response "Falha na geração de conteúdo"
// @Router /api/library/{topicId} [get]
func (c *LibraryController) Content(ctx *gin.Context) {
	topicID := ctx.Param("topicId")

	topic, markdown, err := c.LibraryService.Content(ctx.Request.Context(), topicID)
	if err != nil {
		if errors.Is(err, util.ErrTopicNotFound) {
			util.Error(ctx, 404, util.ErrTopicNotFound.Error())
			return
		}
		util.Error(ctx, 502, "Não foi possível carregar o conteúdo da biblioteca.")
		return
	}

	util.Success(ctx, gin.H{
		"topic":   topic,
		"content": markdown,
	})
}
