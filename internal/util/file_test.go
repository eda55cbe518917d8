package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectImageMime(t *testing.T) {
	t.Run("png por assinatura", func(t *testing.T) {
		mime, err := DetectImageMime([]byte("\x89PNG\r\n\x1a\nresto do arquivo"))
		require.NoError(t, err)
		assert.Equal(t, "image/png", mime)
	})

	t.Run("jpeg por assinatura", func(t *testing.T) {
		mime, err := DetectImageMime([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'})
		require.NoError(t, err)
		assert.Equal(t, MimeJPEG, mime)
	})

	t.Run("texto é recusado", func(t *testing.T) {
		_, err := DetectImageMime([]byte("isto não é uma imagem"))
		assert.Error(t, err)
	})
}

func TestTitleFromFilename(t *testing.T) {
	assert.Equal(t, "tecido-epitelial", TitleFromFilename("tecido-epitelial.png"))
	assert.Equal(t, "mapa", TitleFromFilename("/tmp/uploads/mapa.jpeg"))
}
