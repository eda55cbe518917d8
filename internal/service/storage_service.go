package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/imanoela-sketch/apphistomed/internal/config"
	"github.com/imanoela-sketch/apphistomed/internal/util"
	"github.com/imanoela-sketch/apphistomed/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider guarda as imagens da galeria de mapas mentais e
// devolve a URL a registrar no item.
type StorageProvider interface {
	Store(ctx context.Context, filename string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
}

// EmbeddedStorageProvider é o padrão: a imagem vira um data URL gravado
// junto com o item no KV store, sem armazenamento externo.
type EmbeddedStorageProvider struct{}

func (p *EmbeddedStorageProvider) Store(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Delete é nula no modo embutido: o dado some junto com o item.
func (p *EmbeddedStorageProvider) Delete(ctx context.Context, filename string) error {
	return nil
}

// LocalStorageProvider grava em disco e serve sob /uploads.
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Store(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, filename)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return "", err
	}
	return "/uploads/" + filename, nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, filename string) error {
	return os.Remove(filepath.Join(p.Config.LocalPath, filename))
}

// MinioStorageProvider guarda no MinIO/S3 compatível.
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Store(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, filename,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/%s/%s", p.Config.MinioBucket, filename), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, filename string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, filename, minio.RemoveObjectOptions{})
}

// StorageService escolhe o provedor conforme storage.type na configuração.
type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider
	switch cfg.Storage.Type {
	case util.StorageMinio:
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err != nil {
			logger.Log.Warn("MinIO indisponível, usando armazenamento embutido", zap.Error(err))
		} else {
			provider = p
		}
	case util.StorageLocal:
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	case util.StorageEmbedded:
		provider = &EmbeddedStorageProvider{}
	}
	if provider == nil {
		provider = &EmbeddedStorageProvider{}
	}
	return &StorageService{Provider: provider}
}

func (s *StorageService) Store(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	return s.Provider.Store(ctx, filename, data, contentType)
}

func (s *StorageService) Delete(ctx context.Context, filename string) error {
	return s.Provider.Delete(ctx, filename)
}
