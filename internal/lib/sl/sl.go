// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель: упростить формирование структурированных полей лога,
// например, для передачи информации об ошибках и идентификатора запроса.
package sl

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
)

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// ForRequest возвращает логгер с полями op и request_id текущего запроса.
func ForRequest(log *slog.Logger, op string, r *http.Request) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Discard логгер, который ничего не пишет. Нужен в тестах и для необязательных зависимостей.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
