package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/imanoela-sketch/apphistomed/internal/model"
	"github.com/imanoela-sketch/apphistomed/internal/repository"
	"github.com/imanoela-sketch/apphistomed/internal/util"
	"github.com/imanoela-sketch/apphistomed/pkg/logger"

	"go.uber.org/zap"
)

// MindMapService mantém a galeria de mapas mentais. A coleção inteira
// vive em memória e é espelhada no KV store; mudanças feitas por outra
// instância chegam pelo canal de eventos e recarregam a cópia local.
type MindMapService struct {
	store   *repository.KVStore
	images  *ImageService
	storage *StorageService

	mu   sync.RWMutex
	maps []model.MindMapItem
}

func NewMindMapService(ctx context.Context, store *repository.KVStore, images *ImageService, storage *StorageService) (*MindMapService, error) {
	s := &MindMapService{
		store:   store,
		images:  images,
		storage: storage,
		maps:    []model.MindMapItem{},
	}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	err := store.Subscribe(ctx, func(key string) {
		if key != util.MindMapsKey {
			return
		}
		if err := s.reload(context.Background()); err != nil {
			logger.Log.Warn("falha ao recarregar galeria após evento", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MindMapService) reload(ctx context.Context) error {
	var maps []model.MindMapItem
	if err := s.store.Load(ctx, util.MindMapsKey, &maps); err != nil {
		return err
	}
	if maps == nil {
		maps = []model.MindMapItem{}
	}
	s.mu.Lock()
	s.maps = maps
	s.mu.Unlock()
	return nil
}

// List devolve a galeria, mais recente primeiro.
func (s *MindMapService) List() []model.MindMapItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.MindMapItem, len(s.maps))
	copy(out, s.maps)
	return out
}

// Add normaliza a imagem, guarda no provedor configurado e insere o
// item no início da galeria. Se o KV store estiver cheio, o item
// permanece em memória e o erro ErrStoreFull volta como aviso.
func (s *MindMapService) Add(ctx context.Context, title string, imageData []byte) (*model.MindMapItem, error) {
	normalized, err := s.images.Normalize(imageData)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	id := strconv.FormatInt(now.UnixMilli(), 10)
	url, err := s.storage.Store(ctx, id+".jpg", normalized.Data, util.MimeJPEG)
	if err != nil {
		return nil, err
	}

	item := model.MindMapItem{
		ID:        id,
		Title:     title,
		URL:       url,
		DateAdded: now,
	}

	s.mu.Lock()
	s.maps = append([]model.MindMapItem{item}, s.maps...)
	snapshot := make([]model.MindMapItem, len(s.maps))
	copy(snapshot, s.maps)
	s.mu.Unlock()

	if err := s.store.Save(ctx, util.MindMapsKey, snapshot); err != nil {
		if errors.Is(err, util.ErrStoreFull) {
			logger.Log.Warn("KV store cheio, mapa mental mantido apenas em memória",
				zap.String("id", item.ID))
			return &item, util.ErrStoreFull
		}
		return nil, err
	}
	return &item, nil
}

// Delete remove um item da galeria e do provedor de armazenamento.
func (s *MindMapService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	for i, m := range s.maps {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return util.ErrMindMapNotFound
	}
	s.maps = append(s.maps[:idx], s.maps[idx+1:]...)
	snapshot := make([]model.MindMapItem, len(s.maps))
	copy(snapshot, s.maps)
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, id+".jpg"); err != nil {
		logger.Log.Warn("falha ao excluir imagem do provedor",
			zap.String("id", id),
			zap.Error(err))
	}
	return s.store.Save(ctx, util.MindMapsKey, snapshot)
}
