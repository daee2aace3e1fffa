package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/byteask-api/internal/middleware"
	apperrors "github.com/yourusername/byteask-api/internal/pkg/errors"
	"github.com/yourusername/byteask-api/internal/service"
)

// QuestionHandler обрабатывает запросы, связанные с вопросами
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// CreateQuestionRequest представляет запрос на создание вопроса
type CreateQuestionRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Create создает новый вопрос от имени аутентифицированного пользователя
func (h *QuestionHandler) Create(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	question, err := h.questionService.Create(userID.(uint), req.Title, req.Description, req.Tags)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": vErr.Errors})
			return
		}
		log.Printf("[QuestionHandler] Ошибка при создании вопроса: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, question)
}

// Latest возвращает ленту свежих вопросов (кешируется)
func (h *QuestionHandler) Latest(c *gin.Context) {
	questions, err := h.questionService.Latest()
	if err != nil {
		log.Printf("[QuestionHandler] Ошибка при получении ленты: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, questions)
}

// List возвращает страницу вопросов с пагинацией
func (h *QuestionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	questions, totalPages, err := h.questionService.List(page, limit)
	if err != nil {
		log.Printf("[QuestionHandler] Ошибка при получении вопросов: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	if page < 1 {
		page = 1
	}
	c.JSON(http.StatusOK, gin.H{
		"questions":   questions,
		"totalPages":  totalPages,
		"currentPage": page,
	})
}

// GetByID возвращает один вопрос по идентификатору
func (h *QuestionHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}

	question, err := h.questionService.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		log.Printf("[QuestionHandler] Ошибка при получении вопроса: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, question)
}
