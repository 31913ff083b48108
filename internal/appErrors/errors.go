package appErrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// AppError - основная структура ошибки приложения
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Конструктор
func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

// С цепочкой ошибок
func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	return &AppError{
		Code:     e.Code,
		Message:  e.Message,
		Details:  details,
		Err:      e.Err,
		HTTPCode: e.HTTPCode,
	}
}

// Для маршалинга в JSON
func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

// Is - обертка над стандартной функцией errors.Is
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As - обертка над стандартной функцией errors.As
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Предопределенные ошибки
var (
	// Аутентификация
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid email or password", http.StatusBadRequest)
	ErrUnauthorized       = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrInvalidToken       = New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)

	// Пользователи
	ErrUserNotFound     = New(CodeUserNotFound, "User not found", http.StatusNotFound)
	ErrEmailTaken       = New(CodeEmailTaken, "Email already taken", http.StatusBadRequest)
	ErrPhoneTaken       = New(CodePhoneTaken, "Phone already taken", http.StatusBadRequest)
	ErrUserBlocked      = New(CodeUserBlocked, "User account is blocked", http.StatusForbidden)
	ErrWeakPassword     = New(CodeWeakPassword, "Password does not meet the minimum requirements", http.StatusBadRequest)
	ErrCannotBlockAdmin = New(CodeCannotBlockAdmin, "Admin account cannot be blocked", http.StatusForbidden)

	// Коды подтверждения
	ErrEmailRequired      = New(CodeEmailRequired, "Email is required", http.StatusBadRequest)
	ErrNoCodeFound        = New(CodeNoCodeFound, "Confirmation code not found or expired", http.StatusBadRequest)
	ErrCodeMismatch       = New(CodeCodeMismatch, "Invalid confirmation code", http.StatusBadRequest)
	ErrMailDispatchFailed = New(CodeMailDispatchFailed, "Failed to send email, please retry", http.StatusBadGateway)

	// Сброс пароля
	ErrResetTokenInvalid = New(CodeResetTokenInvalid, "Invalid or expired reset token", http.StatusBadRequest)

	// Фото
	ErrFileRequired        = New(CodeFileRequired, "File is not provided", http.StatusBadRequest)
	ErrInvalidFileType     = New(CodeInvalidFileType, "Only images are allowed", http.StatusBadRequest)
	ErrFileTooLarge        = New(CodeFileTooLarge, "File too large", http.StatusBadRequest)
	ErrInvalidPhotoSlot    = New(CodeInvalidPhotoSlot, "Photo position must be between 0 and 8", http.StatusBadRequest)
	ErrPhotoNotFound       = New(CodePhotoNotFound, "Photo not found", http.StatusNotFound)

	// Валидация
	ErrValidationFailed = New(CodeValidationFailed, "Validation failed", http.StatusBadRequest)

	// Geolocation
	ErrInvalidCoordinates = New(CodeInvalidCoordinates, "Invalid coordinates", http.StatusBadRequest)
)

// ValidationError создает ошибку валидации с деталями
func ValidationError(details interface{}) *AppError {
	return ErrValidationFailed.WithDetails(details)
}

// NewBadRequestError создает 400 ошибку с произвольным сообщением
func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}

// InternalError оборачивает неожиданную ошибку
func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

// DependencyError оборачивает сбой внешнего сервиса (почта, OAuth провайдер).
// Отдаем 502: проблема у зависимости, клиенту имеет смысл повторить позже
func DependencyError(err error) *AppError {
	return Wrap(err, CodeExternalServiceError, "External service error", http.StatusBadGateway)
}
