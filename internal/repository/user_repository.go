package repository

import (
	"errors"
	"time"

	"github.com/imanoela-sketch/apphistomed/internal/model"

	"gorm.io/gorm"
)

// UserRepository persiste contas locais (auth.provider = "local").
// Quando o provedor é o Supabase, esta tabela fica vazia.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(account *model.Account) error {
	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = now
	}
	return r.DB.Create(account).Error
}

// FindByEmail retorna (nil, nil) quando a conta não existe, para que o
// serviço decida entre cadastro duplicado e credencial inválida.
func (r *UserRepository) FindByEmail(email string) (*model.Account, error) {
	var account model.Account
	err := r.DB.Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Account{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}
