package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/byteask-api/internal/domain/entity"
	"github.com/yourusername/byteask-api/internal/domain/repository"
)

// AnswerRepo реализует repository.AnswerRepository
type AnswerRepo struct {
	db *gorm.DB
}

// NewAnswerRepo создает новый репозиторий ответов
func NewAnswerRepo(db *gorm.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

// Create создает новый ответ
func (r *AnswerRepo) Create(answer *entity.Answer) error {
	return r.db.Create(answer).Error
}

// ListByQuestion возвращает ответы на вопрос (новые первыми) с именем и email автора
func (r *AnswerRepo) ListByQuestion(questionID uint) ([]repository.AnswerWithAuthor, error) {
	var answers []repository.AnswerWithAuthor
	err := r.db.Model(&entity.Answer{}).
		Select("answers.*, users.name AS author_name, users.email AS author_email").
		Joins("JOIN users ON users.id = answers.author_id").
		Where("answers.question_id = ?", questionID).
		Order("answers.created_at DESC, answers.id DESC").
		Scan(&answers).Error
	return answers, err
}
