package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/imanoela-sketch/apphistomed/internal/repository"
	"github.com/imanoela-sketch/apphistomed/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMindMapService(t *testing.T, backend *memBackend) *MindMapService {
	t.Helper()
	svc, err := NewMindMapService(context.Background(),
		repository.NewKVStore(backend),
		NewImageService(),
		&StorageService{Provider: &EmbeddedStorageProvider{}})
	require.NoError(t, err)
	return svc
}

func TestMindMapAdd(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()
	svc := newMindMapService(t, backend)

	img := encodePNG(t, 200, 150)

	item, err := svc.Add(ctx, "Tecido Epitelial", img)
	require.NoError(t, err)
	assert.Equal(t, "Tecido Epitelial", item.Title)
	assert.True(t, strings.HasPrefix(item.URL, "data:image/jpeg;base64,"))
	assert.WithinDuration(t, time.Now(), item.DateAdded, time.Minute)

	t.Run("mais recente primeiro", func(t *testing.T) {
		second, err := svc.Add(ctx, "Tecido Ósseo", img)
		require.NoError(t, err)

		maps := svc.List()
		require.Len(t, maps, 2)
		assert.Equal(t, second.ID, maps[0].ID)
	})

	t.Run("imagem ilegível", func(t *testing.T) {
		_, err := svc.Add(ctx, "Quebrado", []byte("não é imagem"))
		assert.ErrorIs(t, err, util.ErrProcessing)
	})
}

func TestMindMapAddStoreFull(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()
	svc := newMindMapService(t, backend)

	backend.setErr = errors.New("OOM command not allowed when used memory > 'maxmemory'")

	item, err := svc.Add(ctx, "Grande demais", encodePNG(t, 100, 100))
	assert.ErrorIs(t, err, util.ErrStoreFull)
	// o item fica disponível em memória mesmo sem caber no armazenamento
	require.NotNil(t, item)
	maps := svc.List()
	require.Len(t, maps, 1)
	assert.Equal(t, item.ID, maps[0].ID)
}

func TestMindMapDelete(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()
	svc := newMindMapService(t, backend)

	item, err := svc.Add(ctx, "Para excluir", encodePNG(t, 80, 80))
	require.NoError(t, err)

	t.Run("id inexistente", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, "0"), util.ErrMindMapNotFound)
	})

	t.Run("remove da galeria e do armazenamento", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, item.ID))
		assert.Empty(t, svc.List())
	})
}

func TestMindMapSurvivesReload(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()

	svc := newMindMapService(t, backend)
	item, err := svc.Add(ctx, "Tecido Conjuntivo", encodePNG(t, 120, 90))
	require.NoError(t, err)

	// instância nova carrega a coleção gravada do zero
	reloaded := newMindMapService(t, backend)
	maps := reloaded.List()
	require.Len(t, maps, 1)

	got := maps[0]
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, item.Title, got.Title)
	assert.Equal(t, item.URL, got.URL)
	assert.True(t, item.DateAdded.Equal(got.DateAdded),
		"DateAdded gravado %v, recuperado %v", item.DateAdded, got.DateAdded)
}

func TestMindMapReloadOnExternalChange(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()

	first := newMindMapService(t, backend)
	second := newMindMapService(t, backend)

	_, err := first.Add(ctx, "Compartilhado", encodePNG(t, 64, 64))
	require.NoError(t, err)

	// o evento chega de forma assíncrona na outra instância
	assert.Eventually(t, func() bool {
		return len(second.List()) == 1
	}, 2*time.Second, 20*time.Millisecond)

	// quem escreveu não recarrega por causa do próprio evento
	assert.Len(t, first.List(), 1)
}
