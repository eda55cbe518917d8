package controller

import (
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"github.com/imanoela-sketch/apphistomed/internal/service"
	"github.com/imanoela-sketch/apphistomed/internal/util"

	"github.com/gin-gonic/gin"
)

// Lâminas maiores que isso são recusadas antes da normalização.
const maxSlideUploadBytes = 10 << 20

type MicroscopeController struct {
	ImageService *service.ImageService
	Generator    service.ContentGenerator
}

func NewMicroscopeController(imageService *service.ImageService, generator service.ContentGenerator) *MicroscopeController {
	return &MicroscopeController{ImageService: imageService, Generator: generator}
}

// AnalyzeImageRequest imagem como data URL, alternativa ao upload multipart
// swagger:model AnalyzeImageRequest
type AnalyzeImageRequest struct {
	Image string `json:"image" binding:"required"`
}

// Analyze godoc
// @Summary Analisar lâmina histológica
// @Description Recebe a imagem (multipart "image" ou JSON com data URL), normaliza e devolve o laudo estruturado
// @Tags Microscópio
// @Accept  mpfd
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   image formData file false "Imagem da lâmina (PNG ou JPEG)"
// @Success 200 {object} util.Response{data=model.SlideAnalysis} "Laudo"
// @Failure 400 {object} util.Response "Imagem ausente ou ilegível"
// @Failure 502 {object} util.Response "Falha na análise"
// @Router /api/microscope/analyze [post]
func (c *MicroscopeController) Analyze(ctx *gin.Context) {
	data, err := c.readImage(ctx)
	if err != nil {
		util.BadRequest(ctx, "Envie a imagem da lâmina em PNG ou JPEG.")
		return
	}

	normalized, err := c.ImageService.Normalize(data)
	if err != nil {
		util.BadRequest(ctx, util.ErrProcessing.Error())
		return
	}

	analysis, err := c.Generator.AnalyzeSlide(ctx.Request.Context(), normalized.Data)
	if err != nil {
		if errors.Is(err, util.ErrMalformedResponse) {
			util.Error(ctx, 502, "Não foi possível analisar a imagem. Tente novamente.")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, analysis)
}

func (c *MicroscopeController) readImage(ctx *gin.Context) ([]byte, error) {
	var data []byte
	if file, err := ctx.FormFile("image"); err == nil {
		if file.Size > maxSlideUploadBytes {
			return nil, errors.New("imagem grande demais")
		}
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if data, err = io.ReadAll(io.LimitReader(f, maxSlideUploadBytes)); err != nil {
			return nil, err
		}
	} else {
		var req AnalyzeImageRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		if data, err = decodeDataURL(req.Image); err != nil {
			return nil, err
		}
	}
	if _, err := util.DetectImageMime(data); err != nil {
		return nil, err
	}
	return data, nil
}

// decodeDataURL aceita tanto o data URL completo quanto só o base64.
func decodeDataURL(s string) ([]byte, error) {
	if idx := strings.Index(s, ";base64,"); idx >= 0 {
		s = s[idx+len(";base64,"):]
	}
	if len(s) > maxSlideUploadBytes {
		return nil, errors.New("imagem grande demais")
	}
	return base64.StdEncoding.DecodeString(s)
}
