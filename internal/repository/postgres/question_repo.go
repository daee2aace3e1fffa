package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/byteask-api/internal/domain/entity"
	apperrors "github.com/yourusername/byteask-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetLatest возвращает limit самых свежих вопросов
func (r *QuestionRepo) GetLatest(limit int) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&questions).Error
	return questions, err
}

// List возвращает страницу вопросов (новые первыми) и общее количество
func (r *QuestionRepo) List(limit, offset int) ([]entity.Question, int64, error) {
	var questions []entity.Question
	var total int64

	if err := r.db.Model(&entity.Question{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}
