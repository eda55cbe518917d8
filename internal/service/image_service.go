package service

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/imanoela-sketch/apphistomed/internal/util"
	"github.com/imanoela-sketch/apphistomed/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

const (
	// Dimensão máxima e qualidade JPEG das imagens armazenadas.
	// Limites baixos porque a coleção inteira é serializada no KV store.
	maxImageDimension = 1024
	jpegQuality       = 60
)

// NormalizedImage é o resultado da normalização: JPEG comprimido,
// redimensionado e pronto para armazenar ou enviar para análise.
type NormalizedImage struct {
	Data    []byte
	DataURL string
	Width   int
	Height  int
}

// ImageService redimensiona e recomprime imagens de lâminas e mapas
// mentais antes de persistir.
type ImageService struct{}

func NewImageService() *ImageService {
	return &ImageService{}
}

// Normalize decodifica PNG ou JPEG, reduz o maior lado para no máximo
// 1024px mantendo a proporção (nunca amplia) e recomprime como JPEG.
// Qualquer falha de decodificação vira util.ErrProcessing.
func (s *ImageService) Normalize(data []byte) (*NormalizedImage, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Log.Warn("falha ao decodificar imagem", zap.Error(err))
		return nil, util.ErrProcessing
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, util.ErrProcessing
	}

	newWidth, newHeight := fitWithin(width, height, maxImageDimension)

	out := src
	if newWidth != width || newHeight != height {
		dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		logger.Log.Error("falha ao recomprimir imagem",
			zap.String("format", format),
			zap.Error(err))
		return nil, util.ErrProcessing
	}

	encoded := buf.Bytes()
	return &NormalizedImage{
		Data:    encoded,
		DataURL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(encoded),
		Width:   newWidth,
		Height:  newHeight,
	}, nil
}

// fitWithin reduz (w, h) proporcionalmente para caber em max × max.
// Imagens já dentro do limite ficam como estão.
func fitWithin(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w >= h {
		return max, maxInt(1, h*max/w)
	}
	return maxInt(1, w*max/h), max
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
