package model

import "time"

// StudentLog registra um acesso de estudante à plataforma. A lista
// completa é mantida no KV store sob uma única chave, mais recente primeiro.
// swagger:model StudentLog
type StudentLog struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}
