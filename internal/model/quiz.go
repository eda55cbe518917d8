package model

// QuizQuestion é uma questão de múltipla escolha gerada pelo colaborador de
// IA. Nunca é persistida; vive apenas durante a sessão de quiz.
// swagger:model QuizQuestion
type QuizQuestion struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"` // índice 0-3
	Explanation   string   `json:"explanation"`
}

// QuizPhase é o estado da máquina de sessão de quiz.
type QuizPhase string

const (
	// PhaseSelection é o estado sem sessão: o aluno escolhe o tema.
	PhaseSelection QuizPhase = "SELECTION"
	PhaseActive    QuizPhase = "ACTIVE"
	PhaseResult    QuizPhase = "RESULT"
)

// Unanswered marca uma posição ainda sem resposta em QuizSession.Answers.
const Unanswered = -1

// QuizSession é o estado derivado de uma sessão ativa.
// Invariante: len(Answers) == len(Questions) sempre.
type QuizSession struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	Phase      QuizPhase      `json:"phase"`
	Topic      Topic          `json:"topic"`
	Questions  []QuizQuestion `json:"questions"`
	Answers    []int          `json:"answers"`
	Score      int            `json:"score"`
	CurrentIdx int            `json:"currentIdx"`
	Revealed   bool           `json:"revealed"`
}
