package service

import (
	"fmt"
	"strings"

	"github.com/yourusername/byteask-api/internal/domain/entity"
	"github.com/yourusername/byteask-api/internal/domain/repository"
)

// AnswerService предоставляет методы для работы с ответами на вопросы
type AnswerService struct {
	answerRepo   repository.AnswerRepository
	questionRepo repository.QuestionRepository
}

// NewAnswerService создает новый сервис ответов и возвращает ошибку при проблемах
func NewAnswerService(
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
) (*AnswerService, error) {
	if answerRepo == nil {
		return nil, fmt.Errorf("AnswerRepository is required for AnswerService")
	}
	if questionRepo == nil {
		return nil, fmt.Errorf("QuestionRepository is required for AnswerService")
	}
	return &AnswerService{
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
	}, nil
}

// Add создает ответ от имени пользователя authorID.
// Вопрос должен существовать: ошибка ErrNotFound отдается как есть.
func (s *AnswerService) Add(authorID, questionID uint, content string) (*entity.Answer, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &ValidationError{Errors: []FieldError{
			{Param: "content", Msg: "Question ID and content are required."},
		}}
	}

	if _, err := s.questionRepo.GetByID(questionID); err != nil {
		return nil, err
	}

	answer := &entity.Answer{
		QuestionID: questionID,
		AuthorID:   authorID,
		Content:    strings.TrimSpace(content),
	}
	if err := s.answerRepo.Create(answer); err != nil {
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}
	return answer, nil
}

// ListByQuestion возвращает ответы на вопрос с данными авторов
func (s *AnswerService) ListByQuestion(questionID uint) ([]repository.AnswerWithAuthor, error) {
	answers, err := s.answerRepo.ListByQuestion(questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	return answers, nil
}
