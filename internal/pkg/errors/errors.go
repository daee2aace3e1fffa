package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок аутентификации
	// (неверные учетные данные, невалидный или истекший токен).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для нарушений уникальности
	// (email или google id уже заняты другим пользователем).
	ErrConflict = errors.New("resource state conflict")

	// ErrUnavailable используется, когда хранилище или внешний провайдер недоступны.
	// Наружу отдается только общий ответ 500, без деталей.
	ErrUnavailable = errors.New("dependency unavailable")
)
