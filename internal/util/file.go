package util

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

// DetectImageMime valida por conteúdo que os bytes são de uma imagem suportada.
// A extensão do arquivo não conta; só o sniffing dos primeiros 512 bytes.
func DetectImageMime(data []byte) (string, error) {
	probe := data
	if len(probe) > 512 {
		probe = probe[:512]
	}
	mimeType := http.DetectContentType(probe)

	if !strings.HasPrefix(mimeType, MimeImage) {
		return mimeType, errors.New("invalid file type: " + mimeType)
	}
	return mimeType, nil
}

// TitleFromFilename remove a extensão do nome do arquivo; vira o título
// padrão quando o upload não informa um.
func TitleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
