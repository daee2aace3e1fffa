package repository

import (
	"github.com/yourusername/byteask-api/internal/domain/entity"
)

// AnswerWithAuthor представляет ответ вместе с данными автора для выдачи клиенту
type AnswerWithAuthor struct {
	entity.Answer
	AuthorName  string `json:"authorName"`
	AuthorEmail string `json:"authorEmail"`
}

// AnswerRepository определяет методы для работы с ответами
type AnswerRepository interface {
	Create(answer *entity.Answer) error
	// ListByQuestion возвращает ответы на вопрос (новые первыми) с именем и email автора
	ListByQuestion(questionID uint) ([]AnswerWithAuthor, error)
}
