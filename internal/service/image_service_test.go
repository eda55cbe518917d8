package service

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/imanoela-sketch/apphistomed/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 10 {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalize(t *testing.T) {
	svc := NewImageService()

	t.Run("imagem pequena não é ampliada", func(t *testing.T) {
		out, err := svc.Normalize(encodePNG(t, 640, 480))
		require.NoError(t, err)
		assert.Equal(t, 640, out.Width)
		assert.Equal(t, 480, out.Height)
	})

	t.Run("imagem larga é reduzida para 1024 de largura", func(t *testing.T) {
		out, err := svc.Normalize(encodePNG(t, 4000, 2000))
		require.NoError(t, err)
		assert.Equal(t, 1024, out.Width)
		assert.Equal(t, 512, out.Height)
	})

	t.Run("imagem alta é reduzida para 1024 de altura", func(t *testing.T) {
		out, err := svc.Normalize(encodePNG(t, 500, 2048))
		require.NoError(t, err)
		assert.Equal(t, 1024, out.Height)
		assert.Equal(t, 250, out.Width)
	})

	t.Run("saída é JPEG com data URL", func(t *testing.T) {
		out, err := svc.Normalize(encodePNG(t, 100, 100))
		require.NoError(t, err)

		cfg, format, err := image.DecodeConfig(bytes.NewReader(out.Data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 100, cfg.Width)
		assert.True(t, strings.HasPrefix(out.DataURL, "data:image/jpeg;base64,"))
	})

	t.Run("jpeg de entrada também é aceito", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 60, 40))
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, img, nil))

		out, err := svc.Normalize(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, 60, out.Width)
	})

	t.Run("dado ilegível", func(t *testing.T) {
		_, err := svc.Normalize([]byte("isto não é uma imagem"))
		assert.ErrorIs(t, err, util.ErrProcessing)
	})
}
