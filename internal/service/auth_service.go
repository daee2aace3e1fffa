package service

import (
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"

	"github.com/yourusername/byteask-api/internal/domain/entity"
	"github.com/yourusername/byteask-api/internal/domain/repository"
	apperrors "github.com/yourusername/byteask-api/internal/pkg/errors"
	"github.com/yourusername/byteask-api/pkg/auth"
)

// AuthService предоставляет методы для регистрации и входа по паролю
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}, nil
}

// FieldError описывает одну ошибку валидации конкретного поля
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// ValidationError агрегирует ошибки валидации по полям.
// Разворачивается в apperrors.ErrValidation, чтобы работал errors.Is.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Param, fe.Msg))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrValidation
}

// validateRegisterInput проверяет входные данные регистрации.
// Выполняется ДО любого обращения к хранилищу.
func validateRegisterInput(name, email, password string) *ValidationError {
	var fields []FieldError
	if strings.TrimSpace(name) == "" {
		fields = append(fields, FieldError{Param: "name", Msg: "Name is required"})
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fields = append(fields, FieldError{Param: "email", Msg: "Invalid email"})
	}
	if len(password) < 6 {
		fields = append(fields, FieldError{Param: "password", Msg: "Password must be 6+ chars"})
	}
	if len(fields) > 0 {
		return &ValidationError{Errors: fields}
	}
	return nil
}

// validateLoginInput проверяет входные данные входа.
// Выполняется ДО любого обращения к хранилищу.
func validateLoginInput(email, password string) *ValidationError {
	var fields []FieldError
	if _, err := mail.ParseAddress(email); err != nil {
		fields = append(fields, FieldError{Param: "email", Msg: "Enter a valid email"})
	}
	if password == "" {
		fields = append(fields, FieldError{Param: "password", Msg: "Password is required"})
	}
	if len(fields) > 0 {
		return &ValidationError{Errors: fields}
	}
	return nil
}

// Register регистрирует нового пользователя и возвращает токен доступа.
// Предварительная проверка email — быстрый ответ для типового случая;
// гарантию уникальности дает уникальный индекс, чье нарушение Create
// возвращает как ErrConflict.
func (s *AuthService) Register(name, email, password string) (string, error) {
	if vErr := validateRegisterInput(name, email, password); vErr != nil {
		return "", vErr
	}

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return "", fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return "", fmt.Errorf("failed to check email existence: %w", err)
	}

	user := &entity.User{
		Name:     name,
		Email:    email,
		Password: password, // хешируется в BeforeSave
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Гонка "проверили — вставили": индекс сработал вместо предварительной проверки
			return "", fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token after registration: %w", err)
	}

	log.Printf("[AuthService] Пользователь ID=%d (%s) успешно зарегистрирован", user.ID, user.Email)
	return token, nil
}

// Login аутентифицирует пользователя по email и паролю и возвращает токен доступа.
// Неизвестный email, аккаунт без локального пароля и неверный пароль
// возвращают одну и ту же ошибку: внешне эти случаи неразличимы.
func (s *AuthService) Login(email, password string) (string, error) {
	email = strings.TrimSpace(email)

	if vErr := validateLoginInput(email, password); vErr != nil {
		return "", vErr
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("failed to look up user: %w", err)
		}
		log.Printf("[AuthService] Пользователь с email %s не найден", email)
		return "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	if !user.CheckPassword(password) {
		log.Printf("[AuthService] Неверный пароль или вход по паролю недоступен для email %s", email)
		return "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	log.Printf("[AuthService] Пользователь ID=%d (%s) успешно вошел в систему", user.ID, user.Email)
	return token, nil
}

// GetUserByID возвращает пользователя по ID
func (s *AuthService) GetUserByID(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}
