package controller

import (
	"errors"
	"io"

	"github.com/imanoela-sketch/apphistomed/internal/service"
	"github.com/imanoela-sketch/apphistomed/internal/util"

	"github.com/gin-gonic/gin"
)

type MindMapController struct {
	MindMapService *service.MindMapService
}

func NewMindMapController(mindMapService *service.MindMapService) *MindMapController {
	return &MindMapController{MindMapService: mindMapService}
}

// List godoc
// @Summary Galeria de mapas mentais
// @Description Lista os mapas mentais, mais recente primeiro
// @Tags Mapas Mentais
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.MindMapItem}
// @Router /api/mindmaps [get]
func (c *MindMapController) List(ctx *gin.Context) {
	util.Success(ctx, c.MindMapService.List())
}

// Add godoc
// @Summary Adicionar mapa mental
// @Description Recebe título e imagem (multipart), comprime e publica na galeria. Somente administrador.
// @Tags Mapas Mentais
// @Accept  mpfd
// @Produce  json
// @Security BearerAuth
// @Param   title formData string true "Título do mapa"
// @Param   image formData file true "Imagem (PNG ou JPEG)"
// @Success 201 {object} util.Response{data=model.MindMapItem} "Item criado"
// @Failure 400 {object} util.Response "Imagem ausente ou ilegível"
// @Failure 507 {object} util.Response "Armazenamento cheio; item mantido só em memória"
// @Router /api/mindmaps [post]
func (c *MindMapController) Add(ctx *gin.Context) {
	title := ctx.PostForm("title")
	file, err := ctx.FormFile("image")
	if err != nil {
		util.BadRequest(ctx, "Envie a imagem do mapa mental.")
		return
	}
	if title == "" {
		title = util.TitleFromFilename(file.Filename)
	}

	f, err := file.Open()
	if err != nil {
		util.BadRequest(ctx, util.ErrProcessing.Error())
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxSlideUploadBytes))
	if err != nil {
		util.BadRequest(ctx, util.ErrProcessing.Error())
		return
	}
	if _, err := util.DetectImageMime(data); err != nil {
		util.BadRequest(ctx, "Envie uma imagem PNG ou JPEG.")
		return
	}

	item, err := c.MindMapService.Add(ctx.Request.Context(), title, data)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrStoreFull):
			// o item existe em memória mas não coube no armazenamento
			util.Error(ctx, 507, util.ErrStoreFull.Error())
		case errors.Is(err, util.ErrProcessing):
			util.BadRequest(ctx, util.ErrProcessing.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, item)
}

// Delete godoc
// @Summary Excluir mapa mental
// @Description Remove o item da galeria. Somente administrador.
// @Tags Mapas Mentais
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "ID do mapa"
// @Success 200 {object} util.Response "Item removido"
// @Failure 404 {object} util.Response "Mapa inexistente"
// @Router /api/mindmaps/{id} [delete]
func (c *MindMapController) Delete(ctx *gin.Context) {
	err := c.MindMapService.Delete(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrMindMapNotFound) {
			util.Error(ctx, 404, util.ErrMindMapNotFound.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
