// Package apperr содержит единственный тип прикладной ошибки.
//
// Ошибка несёт HTTP статус и сообщение для клиента. Сервисы возвращают её,
// обработчики передают в response.Fail, который и формирует ответ.
package apperr

import (
	"errors"
	"net/http"
)

// InternalMessage сообщение, которое клиент видит при 500.
const InternalMessage = "Internal server error"

// Error прикладная ошибка со статусом ответа.
type Error struct {
	Status  int
	Message string
	Err     error
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

// New создаёт ошибку с произвольным статусом.
func New(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

// BadRequest 400.
func BadRequest(msg string) *Error {
	return New(http.StatusBadRequest, msg)
}

// Unauthenticated 401.
func Unauthenticated(msg string) *Error {
	return New(http.StatusUnauthorized, msg)
}

// Forbidden 403.
func Forbidden(msg string) *Error {
	return New(http.StatusForbidden, msg)
}

// NotFound 404.
func NotFound(msg string) *Error {
	return New(http.StatusNotFound, msg)
}

// Conflict 409.
func Conflict(msg string) *Error {
	return New(http.StatusConflict, msg)
}

// Gateway 502, ошибка внешнего сервиса (платёжный шлюз, медиахостинг).
func Gateway(msg string, err error) *Error {
	return &Error{Status: http.StatusBadGateway, Message: msg, Err: err}
}

// Internal 500. Причина попадает только в лог.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: InternalMessage, Err: err}
}

// StatusCode достаёт статус из цепочки ошибок, по умолчанию 500.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// Message достаёт сообщение для клиента. Для непрозрачных ошибок
// возвращается InternalMessage, текст причины наружу не уходит.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return InternalMessage
}
