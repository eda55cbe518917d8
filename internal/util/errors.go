package util

import "errors"

var (
	// Autenticação
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	ErrEmailRegistered    = errors.New("este e-mail já está cadastrado")
	ErrEmailNotConfirmed  = errors.New("você precisa confirmar seu e-mail antes de entrar")

	// Armazenamento chave-valor: espaço esgotado no backend
	ErrStoreFull = errors.New("espaço de armazenamento insuficiente, exclua itens antigos")

	// Colaborador de IA devolveu algo que não bate com o formato esperado
	ErrMalformedResponse = errors.New("malformed AI response")

	// Normalização de imagem falhou (decodificação ou recodificação)
	ErrProcessing = errors.New("erro ao processar a imagem")

	// Sessões de quiz
	ErrSessionNotFound = errors.New("quiz session not found")
	ErrQuizFinished    = errors.New("quiz already finished")
	ErrInvalidAnswer   = errors.New("invalid answer index")

	ErrMindMapNotFound = errors.New("mapa mental não encontrado")
	ErrTopicNotFound   = errors.New("tópico não encontrado")

	ErrSessionExpired = errors.New("sessão expirada, entre novamente")
)

// ValidationError carrega uma mensagem pronta para mostrar ao usuário.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidationError diz se err deve virar resposta 400 com a mensagem
// intacta.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
