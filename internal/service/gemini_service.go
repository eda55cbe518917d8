package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/imanoela-sketch/apphistomed/internal/config"
	"github.com/imanoela-sketch/apphistomed/internal/model"
	"github.com/imanoela-sketch/apphistomed/internal/util"
	"github.com/imanoela-sketch/apphistomed/pkg/logger"
	"github.com/imanoela-sketch/apphistomed/pkg/monitoring"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Instruções de sistema dos três geradores. Os resumos e questões seguem
// o Junqueira & Carneiro, referência padrão dos cursos de medicina.
const systemInstructionLibrary = `
Você é um professor catedrático de Histologia e especialista no livro 'Histologia Básica: Texto e Atlas' de Junqueira & Carneiro (14ª ed).
Sua tarefa é gerar um resumo acadêmico detalhado sobre o tópico solicitado.
A saída deve ser formatada em Markdown limpo.
Estruture o resumo com os seguintes pontos:
1. Introdução e Definição
2. Características Gerais
3. Classificação e Tipos Celulares
4. Histofisiologia (Função)
5. Correlações Clínicas Relevantes
Mantenha a linguagem técnica, precisa e didática para estudantes de medicina.
`

const systemInstructionQuiz = `
Você é um examinador de medicina. Gere um JSON com 10 questões de múltipla escolha sobre o tema solicitado.
Baseie-se estritamente no conteúdo de Junqueira & Carneiro.
O formato do JSON deve ser EXATAMENTE:
[
  {
    "id": 1,
    "question": "O enunciado da questão...",
    "options": ["Opção A", "Opção B", "Opção C", "Opção D"],
    "correctAnswer": 0,
    "explanation": "Explicação breve do porquê a resposta está correta."
  },
  ...
]
Retorne APENAS o JSON, sem markdown blocks (como ` + "```json" + `).
`

const systemInstructionMicroscope = `
Você é um microscópio virtual inteligente e patologista digital.
Analise a imagem histológica fornecida.
Retorne um JSON com a seguinte estrutura:
{
  "tissueType": "Nome do tecido principal identificado",
  "features": ["Lista", "de estruturas", "visíveis"],
  "diagnosis": "Diagnóstico provável ou caracterização da lâmina",
  "description": "Uma descrição técnica detalhada do que é visto, mencionando coloração (H&E, etc) se identificável, morfologia celular e arranjo tecidual."
}
Retorne APENAS o JSON, sem markdown blocks.
`

// ContentGenerator abstrai as três gerações de conteúdo por IA.
// A implementação real chama a API Gemini; os testes usam um fake.
type ContentGenerator interface {
	LibraryContent(ctx context.Context, topicTitle string) (string, error)
	QuizQuestions(ctx context.Context, topicTitle string) ([]model.QuizQuestion, error)
	AnalyzeSlide(ctx context.Context, jpegData []byte) (*model.SlideAnalysis, error)
}

// GeminiService implementa ContentGenerator sobre google.golang.org/genai.
// Os nomes dos modelos podem ser trocados em tempo de execução via
// UpdateModels, para acompanhar recarga de configuração.
type GeminiService struct {
	client *genai.Client

	mu          sync.RWMutex
	textModel   string
	visionModel string
}

func NewGeminiService(ctx context.Context, cfg config.GeminiConfig) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("chave de API do Gemini não configurada")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao criar cliente Gemini: %w", err)
	}
	return &GeminiService{
		client:      client,
		textModel:   cfg.TextModel,
		visionModel: cfg.VisionModel,
	}, nil
}

// UpdateModels troca os modelos usados nas próximas gerações. Valores
// vazios mantêm o modelo atual.
func (s *GeminiService) UpdateModels(textModel, visionModel string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if textModel != "" {
		s.textModel = textModel
	}
	if visionModel != "" {
		s.visionModel = visionModel
	}
}

func (s *GeminiService) models() (text, vision string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.textModel, s.visionModel
}

// LibraryContent gera o resumo em Markdown de um tópico da biblioteca.
// Temperatura baixa para precisão factual.
func (s *GeminiService) LibraryContent(ctx context.Context, topicTitle string) (_ string, err error) {
	defer func(start time.Time) { monitoring.ObserveGeneration("library", start, err) }(time.Now())

	prompt := fmt.Sprintf("Gere um resumo detalhado sobre: %s.", topicTitle)
	textModel, _ := s.models()
	resp, err := s.client.Models.GenerateContent(ctx,
		textModel,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstructionLibrary, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.3),
		},
	)
	if err != nil {
		return "", fmt.Errorf("falha ao gerar conteúdo da biblioteca: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", util.ErrMalformedResponse
	}
	return text, nil
}

// QuizQuestions gera as questões de múltipla escolha de um tema. A saída
// é pedida como JSON estruturado e validada antes de ser aceita.
func (s *GeminiService) QuizQuestions(ctx context.Context, topicTitle string) (_ []model.QuizQuestion, err error) {
	defer func(start time.Time) { monitoring.ObserveGeneration("quiz", start, err) }(time.Now())

	schema := &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":       {Type: genai.TypeInteger},
				"question": {Type: genai.TypeString},
				"options": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"correctAnswer": {
					Type:        genai.TypeInteger,
					Description: "Index of the correct option (0-3)",
				},
				"explanation": {Type: genai.TypeString},
			},
			Required: []string{"id", "question", "options", "correctAnswer", "explanation"},
		},
	}

	textModel, _ := s.models()
	resp, err := s.client.Models.GenerateContent(ctx,
		textModel,
		[]*genai.Content{genai.NewContentFromText("Tema: "+topicTitle, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstructionQuiz, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    schema,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("falha ao gerar questões: %w", err)
	}

	questions, err := ParseQuizQuestions(resp.Text())
	if err != nil {
		logger.Log.Warn("resposta de quiz inválida do modelo",
			zap.String("topic", topicTitle),
			zap.Error(err))
		return nil, err
	}
	return questions, nil
}

// AnalyzeSlide analisa uma lâmina histológica com o modelo de visão.
// Esse modelo não aceita responseSchema, então a resposta pode vir
// cercada de markdown e é limpa antes do parse.
func (s *GeminiService) AnalyzeSlide(ctx context.Context, jpegData []byte) (_ *model.SlideAnalysis, err error) {
	defer func(start time.Time) { monitoring.ObserveGeneration("microscope", start, err) }(time.Now())

	content := &genai.Content{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			genai.NewPartFromBytes(jpegData, util.MimeJPEG),
			genai.NewPartFromText("Analise esta lâmina histológica."),
		},
	}

	_, visionModel := s.models()
	resp, err := s.client.Models.GenerateContent(ctx,
		visionModel,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstructionMicroscope, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.2),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("falha ao analisar a imagem: %w", err)
	}

	analysis, err := ParseSlideAnalysis(resp.Text())
	if err != nil {
		logger.Log.Warn("resposta de análise inválida do modelo", zap.Error(err))
		return nil, err
	}
	return analysis, nil
}

// ParseQuizQuestions valida o JSON de questões: exatamente 4 alternativas
// por questão e gabarito dentro do intervalo 0-3.
func ParseQuizQuestions(text string) ([]model.QuizQuestion, error) {
	cleaned := StripCodeFences(text)
	if cleaned == "" {
		return nil, util.ErrMalformedResponse
	}
	var questions []model.QuizQuestion
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, util.ErrMalformedResponse
	}
	if len(questions) == 0 {
		return nil, util.ErrMalformedResponse
	}
	for _, q := range questions {
		if q.Question == "" || len(q.Options) != 4 {
			return nil, util.ErrMalformedResponse
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, util.ErrMalformedResponse
		}
	}
	return questions, nil
}

// ParseSlideAnalysis valida o laudo do microscópio virtual.
func ParseSlideAnalysis(text string) (*model.SlideAnalysis, error) {
	cleaned := StripCodeFences(text)
	if cleaned == "" {
		return nil, util.ErrMalformedResponse
	}
	var analysis model.SlideAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, util.ErrMalformedResponse
	}
	if analysis.TissueType == "" {
		return nil, util.ErrMalformedResponse
	}
	return &analysis, nil
}

// StripCodeFences remove cercas de markdown (```json ... ```) que o
// modelo de visão às vezes adiciona mesmo instruído a não fazê-lo.
func StripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
