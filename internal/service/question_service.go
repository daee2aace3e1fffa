package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/byteask-api/internal/domain/entity"
	"github.com/yourusername/byteask-api/internal/domain/repository"
	apperrors "github.com/yourusername/byteask-api/internal/pkg/errors"
)

const (
	latestQuestionsCacheKey = "questions:latest"
	latestQuestionsCacheTTL = 60 * time.Second
	latestQuestionsLimit    = 10
)

// QuestionService предоставляет методы для работы с лентой вопросов
type QuestionService struct {
	questionRepo repository.QuestionRepository
	userRepo     repository.UserRepository
	cacheRepo    repository.CacheRepository
}

// NewQuestionService создает новый сервис вопросов и возвращает ошибку при проблемах
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
) (*QuestionService, error) {
	if questionRepo == nil {
		return nil, fmt.Errorf("QuestionRepository is required for QuestionService")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for QuestionService")
	}
	// cacheRepo может быть nil: лента тогда всегда читается из БД
	return &QuestionService{
		questionRepo: questionRepo,
		userRepo:     userRepo,
		cacheRepo:    cacheRepo,
	}, nil
}

// validateQuestionInput проверяет входные данные вопроса до обращения к хранилищу
func validateQuestionInput(title, description string) *ValidationError {
	var fields []FieldError
	if strings.TrimSpace(title) == "" {
		fields = append(fields, FieldError{Param: "title", Msg: "Title is required"})
	}
	if len(strings.TrimSpace(description)) < 10 {
		fields = append(fields, FieldError{Param: "description", Msg: "Description must be at least 10 characters"})
	}
	if len(fields) > 0 {
		return &ValidationError{Errors: fields}
	}
	return nil
}

// Create создает новый вопрос от имени пользователя authorID
func (s *QuestionService) Create(authorID uint, title, description string, tags []string) (*entity.Question, error) {
	if vErr := validateQuestionInput(title, description); vErr != nil {
		return nil, vErr
	}

	author, err := s.userRepo.GetByID(authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question author: %w", err)
	}

	question := &entity.Question{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		AuthorID:    author.ID,
		AuthorName:  author.Name,
		Tags:        tags,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	// Новый вопрос делает кеш ленты устаревшим
	s.invalidateLatestCache()

	return question, nil
}

// Latest возвращает свежие вопросы, используя Redis-кеш с коротким TTL.
// Любая ошибка кеша — fail-open: читаем из БД.
func (s *QuestionService) Latest() ([]entity.Question, error) {
	if s.cacheRepo != nil {
		cached, err := s.cacheRepo.Get(latestQuestionsCacheKey)
		if err == nil {
			var questions []entity.Question
			if jsonErr := json.Unmarshal([]byte(cached), &questions); jsonErr == nil {
				return questions, nil
			}
			// Поврежденное значение: сбрасываем и идем в БД
			s.invalidateLatestCache()
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[QuestionService] Ошибка чтения кеша ленты: %v", err)
		}
	}

	questions, err := s.questionRepo.GetLatest(latestQuestionsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest questions: %w", err)
	}

	if s.cacheRepo != nil {
		if data, jsonErr := json.Marshal(questions); jsonErr == nil {
			if err := s.cacheRepo.Set(latestQuestionsCacheKey, string(data), latestQuestionsCacheTTL); err != nil {
				log.Printf("[QuestionService] Ошибка записи кеша ленты: %v", err)
			}
		}
	}

	return questions, nil
}

// GetByID возвращает один вопрос. Ошибка ErrNotFound отдается как есть.
func (s *QuestionService) GetByID(id uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(id)
}

// List возвращает страницу вопросов и общее количество страниц
func (s *QuestionService) List(page, limit int) ([]entity.Question, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	} else if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit
	questions, total, err := s.questionRepo.List(limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return questions, totalPages, nil
}

func (s *QuestionService) invalidateLatestCache() {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(latestQuestionsCacheKey); err != nil {
		log.Printf("[QuestionService] Ошибка сброса кеша ленты: %v", err)
	}
}
