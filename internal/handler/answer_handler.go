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

// AnswerHandler обрабатывает запросы, связанные с ответами на вопросы
type AnswerHandler struct {
	answerService *service.AnswerService
}

// NewAnswerHandler создает новый обработчик ответов
func NewAnswerHandler(answerService *service.AnswerService) *AnswerHandler {
	return &AnswerHandler{answerService: answerService}
}

// AddAnswerRequest представляет запрос на добавление ответа
type AddAnswerRequest struct {
	QuestionID uint   `json:"questionId"`
	Content    string `json:"content"`
}

// Add создает ответ от имени аутентифицированного пользователя
func (h *AnswerHandler) Add(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	var req AddAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.QuestionID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question ID and content are required."})
		return
	}

	answer, err := h.answerService.Add(userID.(uint), req.QuestionID, req.Content)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Question ID and content are required."})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		default:
			log.Printf("[AnswerHandler] Ошибка при создании ответа: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		}
		return
	}

	c.JSON(http.StatusCreated, answer)
}

// ListByQuestion возвращает ответы на вопрос вместе с именами авторов
func (h *AnswerHandler) ListByQuestion(c *gin.Context) {
	questionID, err := strconv.ParseUint(c.Param("questionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}

	answers, err := h.answerService.ListByQuestion(uint(questionID))
	if err != nil {
		log.Printf("[AnswerHandler] Ошибка при получении ответов: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusOK, answers)
}
