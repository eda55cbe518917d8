package service

import (
	"context"
	"sync"
	"time"

	"github.com/imanoela-sketch/apphistomed/internal/model"
	"github.com/imanoela-sketch/apphistomed/internal/util"
	"github.com/imanoela-sketch/apphistomed/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sessões abandonadas são descartadas depois deste prazo.
const quizSessionTTL = 2 * time.Hour

type quizEntry struct {
	session  *model.QuizSession
	lastSeen time.Time
}

// QuizService gera e conduz quizzes. O estado fica em memória por
// sessão: o aluno responde uma questão por vez e só vê o gabarito da
// questão atual depois de responder (ou pular).
type QuizService struct {
	generator ContentGenerator

	mu       sync.Mutex
	sessions map[string]*quizEntry
}

func NewQuizService(generator ContentGenerator) *QuizService {
	s := &QuizService{
		generator: generator,
		sessions:  make(map[string]*quizEntry),
	}
	go s.janitor()
	return s
}

// QuestionView é a questão atual sem o gabarito. CorrectAnswer e
// Explanation só aparecem depois de revelada.
type QuestionView struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// QuizView é o estado visível de uma sessão.
type QuizView struct {
	SessionID  string          `json:"sessionId"`
	Phase      model.QuizPhase `json:"phase"`
	Topic      model.Topic     `json:"topic"`
	Total      int             `json:"total"`
	CurrentIdx int             `json:"currentIndex"`
	Question   *QuestionView   `json:"question,omitempty"`
	Answer     *int            `json:"answer,omitempty"`
	Revealed   bool            `json:"revealed"`
	Score      *int            `json:"score,omitempty"`
}

// Start cria uma sessão nova para o usuário, gerando as questões do
// tema. Falha de geração não cria sessão.
func (s *QuizService) Start(ctx context.Context, userID, topicID string) (*QuizView, error) {
	topic := model.FindTopic(topicID)
	if topic == nil {
		return nil, util.ErrTopicNotFound
	}

	questions, err := s.generator.QuizQuestions(ctx, topic.Title)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrMalformedResponse
	}

	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = model.Unanswered
	}

	session := &model.QuizSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Phase:     model.PhaseActive,
		Topic:     *topic,
		Questions: questions,
		Answers:   answers,
	}

	s.mu.Lock()
	s.sessions[session.ID] = &quizEntry{session: session, lastSeen: time.Now()}
	s.mu.Unlock()

	logger.Log.Info("quiz iniciado",
		zap.String("user", userID),
		zap.String("topic", topic.Title),
		zap.Int("questions", len(questions)))
	return s.view(session), nil
}

// Get devolve o estado atual da sessão do usuário.
func (s *QuizService) Get(sessionID, userID string) (*QuizView, error) {
	session, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(session), nil
}

// Answer registra a resposta da questão atual e revela o gabarito.
// A pontuação conta só no primeiro registro; depois de revelada, a
// questão não aceita outra resposta e a chamada vira um no-op.
func (s *QuizService) Answer(sessionID, userID string, answerIdx int) (*QuizView, error) {
	session, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if session.Phase != model.PhaseActive {
		return nil, util.ErrQuizFinished
	}
	q := session.Questions[session.CurrentIdx]
	if answerIdx < 0 || answerIdx >= len(q.Options) {
		return nil, util.ErrInvalidAnswer
	}
	if !session.Revealed {
		session.Answers[session.CurrentIdx] = answerIdx
		session.Revealed = true
		if answerIdx == q.CorrectAnswer {
			session.Score++
		}
	}
	return s.view(session), nil
}

// Advance passa para a próxima questão. Questão não respondida conta
// como errada e fica registrada como não respondida. Na última questão
// a sessão entra na fase de resultado.
func (s *QuizService) Advance(sessionID, userID string) (*QuizView, error) {
	session, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if session.Phase != model.PhaseActive {
		return nil, util.ErrQuizFinished
	}
	if session.CurrentIdx >= len(session.Questions)-1 {
		session.Phase = model.PhaseResult
	} else {
		session.CurrentIdx++
	}
	session.Revealed = false
	return s.view(session), nil
}

// Reset descarta a sessão e devolve o estado de seleção de tema.
func (s *QuizService) Reset(sessionID, userID string) (*QuizView, error) {
	if _, err := s.lookup(sessionID, userID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return &QuizView{Phase: model.PhaseSelection}, nil
}

func (s *QuizService) lookup(sessionID, userID string) (*model.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok || entry.session.UserID != userID {
		return nil, util.ErrSessionNotFound
	}
	entry.lastSeen = time.Now()
	return entry.session, nil
}

// view monta a projeção visível. Chamar com s.mu já adquirido.
func (s *QuizService) view(session *model.QuizSession) *QuizView {
	v := &QuizView{
		SessionID:  session.ID,
		Phase:      session.Phase,
		Topic:      session.Topic,
		Total:      len(session.Questions),
		CurrentIdx: session.CurrentIdx,
		Revealed:   session.Revealed,
	}
	if session.Phase == model.PhaseResult {
		score := session.Score
		v.Score = &score
		return v
	}
	q := session.Questions[session.CurrentIdx]
	qv := &QuestionView{
		ID:       q.ID,
		Question: q.Question,
		Options:  q.Options,
	}
	if session.Revealed {
		correct := q.CorrectAnswer
		qv.CorrectAnswer = &correct
		qv.Explanation = q.Explanation
		answer := session.Answers[session.CurrentIdx]
		v.Answer = &answer
	}
	v.Question = qv
	return v
}

func (s *QuizService) janitor() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-quizSessionTTL)
		s.mu.Lock()
		for id, entry := range s.sessions {
			if entry.lastSeen.Before(cutoff) {
				delete(s.sessions, id)
			}
		}
		s.mu.Unlock()
	}
}
