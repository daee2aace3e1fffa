package repository

import (
	"github.com/yourusername/byteask-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	Create(question *entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	// GetLatest возвращает limit самых свежих вопросов
	GetLatest(limit int) ([]entity.Question, error)
	// List возвращает страницу вопросов (новые первыми) и общее количество
	List(limit, offset int) ([]entity.Question, int64, error)
}
