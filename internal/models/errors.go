package models

import "net/http"

type ErrorKind string // Вид ошибки жизненного цикла

const (
	KindUnauthorized ErrorKind = "Unauthorized" // Нет роли или прав владельца для действия
	KindInvalidState ErrorKind = "InvalidState" // Действие против запроса/предложения в неверном состоянии
	KindNotFound     ErrorKind = "NotFound"     // Сущность не найдена или id не совпадает
	KindConflict     ErrorKind = "Conflict"     // Дубликат предложения или нарушение уникальности
	KindTransient    ErrorKind = "Transient"    // Сбой хранилища, повтор безопасен
)

// ErrorResponse описывает ошибку со стабильным видом, кодом и сообщением.
type ErrorResponse struct {
	StatusCode int       `json:"-"`
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"reason"`
}

// NewErrorResponse создает новую ошибку с кодом, видом и сообщением.
func NewErrorResponse(statusCode int, kind ErrorKind, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Kind:       kind,
		Message:    message}
}

func NewUnauthorized(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusForbidden, KindUnauthorized, message)
}

func NewInvalidState(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusBadRequest, KindInvalidState, message)
}

func NewNotFound(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusNotFound, KindNotFound, message)
}

func NewConflict(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusConflict, KindConflict, message)
}

func NewTransient(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusInternalServerError, KindTransient, message)
}

// Реализация метода Error() для удовлетворения интерфейса error.
func (e *ErrorResponse) Error() string {
	return e.Message
}
