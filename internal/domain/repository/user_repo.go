package repository

import (
	"github.com/yourusername/byteask-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями.
// Create возвращает apperrors.ErrConflict, если email или google id уже заняты:
// уникальные индексы БД — единственная настоящая гарантия уникальности,
// предварительные проверки по email служат только для быстрого ответа клиенту.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByGoogleID(googleID string) (*entity.User, error)
	Update(user *entity.User) error
	// SetGoogleID привязывает google id к существующему пользователю
	SetGoogleID(userID uint, googleID string) error
}
