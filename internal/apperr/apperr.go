// Package apperr определяет типизированную классификацию ошибок сервиса.
//
// Каждая операция бизнес-уровня возвращает ошибку с видом (Kind) и сообщением,
// пригодным для выдачи клиенту. HTTP-слой преобразует вид в статус ответа.
// Непредвиденные ошибки (недоступное хранилище и т.п.) получают вид KindInternal
// и наружу уходят общим сообщением.
package apperr

import (
	"errors"
	"net/http"
)

// Kind классифицирует ошибку операции.
type Kind int

const (
	// KindInternal — непредвиденная внутренняя ошибка (500).
	KindInternal Kind = iota
	// KindValidation — некорректные или отсутствующие входные данные (400).
	KindValidation
	// KindConflict — нарушение уникальности, например занятый email (400).
	KindConflict
	// KindUnauthorized — отсутствующий/невалидный токен или неверные учётные данные (401).
	KindUnauthorized
	// KindForbidden — роль не допущена или токен сброса невалиден/истёк (403).
	KindForbidden
	// KindNotFound — запрошенный пользователь отсутствует (404).
	KindNotFound
)

// Error — ошибка операции с видом и сообщением для клиента.
type Error struct {
	Kind    Kind
	Message string
	Err     error // Исходная причина, не показывается клиенту.
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New создает ошибку с заданным видом и сообщением.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap создает ошибку с заданным видом и сообщением, сохраняя исходную причину.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf возвращает вид ошибки. Для ошибок без классификации — KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Message возвращает сообщение для клиента. Для неклассифицированных
// ошибок наружу уходит общий текст, исходная причина остаётся в логах.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// HTTPStatus возвращает HTTP-статус, соответствующий виду ошибки.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
