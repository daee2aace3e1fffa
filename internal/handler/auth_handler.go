package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/byteask-api/internal/middleware"
	apperrors "github.com/yourusername/byteask-api/internal/pkg/errors"
	"github.com/yourusername/byteask-api/internal/service"
)

const (
	oauthStateCookie = "oauth_state"
	// Время жизни state-cookie: консент-экран Google должен уложиться в это окно
	oauthStateMaxAge = 10 * 60
)

// AuthHandler обрабатывает запросы, связанные с аутентификацией
type AuthHandler struct {
	authService   *service.AuthService
	googleService *service.GoogleOAuthService
	clientURL     string
}

// NewAuthHandler создает новый обработчик аутентификации.
// googleService может быть nil, если Google OAuth не сконфигурирован.
func NewAuthHandler(
	authService *service.AuthService,
	googleService *service.GoogleOAuthService,
	clientURL string,
) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		googleService: googleService,
		clientURL:     clientURL,
	}
}

// Структуры запросов и ответов

// RegisterRequest представляет запрос на регистрацию.
// Валидация полей выполняется в сервисе, чтобы ответ имел формат {errors: [...]}.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse структура для ответа с токеном авторизации
type TokenResponse struct {
	Token string `json:"token"`
}

// Register обрабатывает регистрацию нового пользователя
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	token, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"errors": vErr.Errors})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusBadRequest, gin.H{"msg": "User already exists"})
		default:
			log.Printf("[AuthHandler] Ошибка при регистрации: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Login обрабатывает вход пользователя.
// Несуществующий email и неверный пароль наружу неразличимы.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"errors": vErr.Errors})
		case errors.Is(err, apperrors.ErrUnauthorized):
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid credentials"})
		default:
			log.Printf("[AuthHandler] Ошибка при входе: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// GetMe возвращает данные текущего пользователя (без пароля)
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return
	}

	user, err := h.authService.GetUserByID(userID.(uint))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
			return
		}
		log.Printf("[AuthHandler] Ошибка при получении пользователя: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server Error"})
		return
	}

	// Password помечен json:"-", сериализация его не отдаст
	c.JSON(http.StatusOK, user)
}

// GoogleLogin перенаправляет пользователя на консент-экран Google.
// State хранится в HttpOnly cookie и проверяется в callback (CSRF-защита).
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.googleService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"msg": "Google auth is not configured"})
		return
	}

	state := uuid.New().String()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", false, true)

	c.Redirect(http.StatusFound, h.googleService.AuthCodeURL(state))
}

// GoogleCallback завершает OAuth-поток: проверяет state, обменивает код на
// профиль и перенаправляет на клиент с токеном в query-параметре
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.googleService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"msg": "Google auth is not configured"})
		return
	}

	failureURL := fmt.Sprintf("%s/login?error=google", h.clientURL)

	state := c.Query("state")
	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != cookieState {
		log.Printf("[AuthHandler] Google callback: несовпадение state")
		c.Redirect(http.StatusFound, failureURL)
		return
	}
	// State одноразовый: сбрасываем cookie сразу после проверки
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	token, err := h.googleService.Authenticate(c.Request.Context(), c.Query("code"))
	if err != nil {
		log.Printf("[AuthHandler] Google callback: аутентификация не удалась: %v", err)
		c.Redirect(http.StatusFound, failureURL)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s/dashboard?token=%s", h.clientURL, token))
}

// Logout сбрасывает state-cookie и перенаправляет на клиент.
// Bearer-токены не хранятся на сервере, отзыв не требуется.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, h.clientURL)
}
