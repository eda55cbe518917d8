package service

import (
	"context"
	"testing"

	"github.com/imanoela-sketch/apphistomed/internal/model"
	"github.com/imanoela-sketch/apphistomed/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryTopics(t *testing.T) {
	svc := NewLibraryService(&fakeGenerator{})
	topics := svc.Topics()

	assert.Len(t, topics, len(model.Topics))

	categories := map[string]bool{}
	for _, topic := range topics {
		categories[topic.Category] = true
	}
	assert.True(t, categories[model.CategoryBasicTissues])
	assert.True(t, categories[model.CategorySystems])
}

func TestLibraryContent(t *testing.T) {
	ctx := context.Background()

	t.Run("tópico desconhecido", func(t *testing.T) {
		svc := NewLibraryService(&fakeGenerator{})
		_, _, err := svc.Content(ctx, "alquimia")
		assert.ErrorIs(t, err, util.ErrTopicNotFound)
	})

	t.Run("gera e devolve o resumo", func(t *testing.T) {
		gen := &fakeGenerator{}
		svc := NewLibraryService(gen)

		topic, markdown, err := svc.Content(ctx, "osseo")
		require.NoError(t, err)
		assert.Equal(t, "Tecido Ósseo", topic.Title)
		assert.Contains(t, markdown, "Tecido Ósseo")
	})

	t.Run("segunda consulta vem do cache", func(t *testing.T) {
		gen := &fakeGenerator{}
		svc := NewLibraryService(gen)

		_, _, err := svc.Content(ctx, "nervoso")
		require.NoError(t, err)
		_, _, err = svc.Content(ctx, "nervoso")
		require.NoError(t, err)

		assert.Equal(t, 1, gen.calls)
	})

	t.Run("falha de geração não entra no cache", func(t *testing.T) {
		gen := &fakeGenerator{libraryErr: util.ErrMalformedResponse}
		svc := NewLibraryService(gen)

		_, _, err := svc.Content(ctx, "pele")
		assert.ErrorIs(t, err, util.ErrMalformedResponse)

		gen.libraryErr = nil
		_, markdown, err := svc.Content(ctx, "pele")
		require.NoError(t, err)
		assert.NotEmpty(t, markdown)
	})
}
