package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/imanoela-sketch/apphistomed/internal/model"
)

// memBackend implementa repository.Backend em memória para os testes
// dos serviços que usam o KV store.
type memBackend struct {
	mu     sync.Mutex
	data   map[string]string
	subs   []chan string
	setErr error
}

func newMemBackend() *memBackend {
	return &memBackend{data: map[string]string{}}
}

func (b *memBackend) Get(ctx context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.data[key]
	return v, ok, nil
}

func (b *memBackend) Set(ctx context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.setErr != nil {
		return b.setErr
	}
	b.data[key] = value
	return nil
}

func (b *memBackend) Del(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

func (b *memBackend) Publish(ctx context.Context, channel, payload string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (b *memBackend) Subscribe(ctx context.Context, channel string) (<-chan string, func(), error) {
	ch := make(chan string, 16)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch, func() {}, nil
}

// fakeGenerator devolve conteúdo determinístico no lugar do Gemini.
type fakeGenerator struct {
	libraryErr  error
	quizErr     error
	analysisErr error
	questions   []model.QuizQuestion
	calls       int
}

func (g *fakeGenerator) LibraryContent(ctx context.Context, topicTitle string) (string, error) {
	g.calls++
	if g.libraryErr != nil {
		return "", g.libraryErr
	}
	return "## Resumo de " + topicTitle, nil
}

func (g *fakeGenerator) QuizQuestions(ctx context.Context, topicTitle string) ([]model.QuizQuestion, error) {
	if g.quizErr != nil {
		return nil, g.quizErr
	}
	if g.questions != nil {
		return g.questions, nil
	}
	return makeQuestions(10), nil
}

func (g *fakeGenerator) AnalyzeSlide(ctx context.Context, jpegData []byte) (*model.SlideAnalysis, error) {
	if g.analysisErr != nil {
		return nil, g.analysisErr
	}
	return &model.SlideAnalysis{
		TissueType:  "Tecido Epitelial",
		Features:    []string{"células justapostas"},
		Diagnosis:   "lâmina normal",
		Description: "Coloração H&E.",
	}, nil
}

// makeQuestions gera n questões com gabarito previsível (i % 4).
func makeQuestions(n int) []model.QuizQuestion {
	out := make([]model.QuizQuestion, n)
	for i := range out {
		out[i] = model.QuizQuestion{
			ID:            i + 1,
			Question:      fmt.Sprintf("Questão %d", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: i % 4,
			Explanation:   fmt.Sprintf("Explicação %d", i+1),
		}
	}
	return out
}
