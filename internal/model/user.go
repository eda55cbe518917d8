package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "STUDENT"
	Admin   UserRole = "ADMIN"
)

// User é o registro de sessão do usuário autenticado. O papel é fixado na
// criação e vale pela vida da sessão.
// swagger:model User
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Account é uma conta local de aluno, usada quando auth.provider == "local".
// Contas do provedor externo nunca tocam esta tabela.
// swagger:model Account
type Account struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Account) TableName() string {
	return "accounts"
}
