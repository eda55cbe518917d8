package service

import (
	"context"
	"sync"
	"time"

	"github.com/imanoela-sketch/apphistomed/internal/model"
	"github.com/imanoela-sketch/apphistomed/internal/util"
	"github.com/imanoela-sketch/apphistomed/pkg/logger"

	"go.uber.org/zap"
)

// contentTTL controla por quanto tempo um resumo gerado fica em cache.
// O catálogo de tópicos é fixo, então só o texto gerado expira.
const contentTTL = 24 * time.Hour

type cachedContent struct {
	markdown  string
	fetchedAt time.Time
}

// LibraryService serve o catálogo de tópicos e os resumos gerados por
// IA, com cache em memória para não repetir chamadas ao modelo.
type LibraryService struct {
	generator ContentGenerator

	mu    sync.Mutex
	cache map[string]cachedContent
}

func NewLibraryService(generator ContentGenerator) *LibraryService {
	return &LibraryService{
		generator: generator,
		cache:     make(map[string]cachedContent),
	}
}

// Topics devolve o catálogo completo, agrupável por categoria no cliente.
func (s *LibraryService) Topics() []model.Topic {
	return model.Topics
}

// Content devolve o resumo em Markdown de um tópico. Tópico inexistente
// vira util.ErrTopicNotFound; o resumo é gerado na primeira consulta e
// reaproveitado até expirar.
func (s *LibraryService) Content(ctx context.Context, topicID string) (*model.Topic, string, error) {
	topic := model.FindTopic(topicID)
	if topic == nil {
		return nil, "", util.ErrTopicNotFound
	}

	s.mu.Lock()
	entry, ok := s.cache[topicID]
	s.mu.Unlock()
	if ok && time.Since(entry.fetchedAt) < contentTTL {
		return topic, entry.markdown, nil
	}

	markdown, err := s.generator.LibraryContent(ctx, topic.Title)
	if err != nil {
		logger.Log.Error("falha ao gerar resumo do tópico",
			zap.String("topic", topic.Title),
			zap.Error(err))
		return nil, "", err
	}

	s.mu.Lock()
	s.cache[topicID] = cachedContent{markdown: markdown, fetchedAt: time.Now()}
	s.mu.Unlock()

	return topic, markdown, nil
}
