// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Все ответы имеют вид
// {success, message, ...}, ошибки проходят через единственную функцию Fail.
package response

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-server/internal/lib/apperr"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Success признак успешного выполнения.
// Поле Message человеко-читаемое сообщение.
// Остальные поля заполняются в зависимости от эндпоинта.
type Response struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	Data           any    `json:"data,omitempty"`
	User           any    `json:"user,omitempty"`
	Key            string `json:"key,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
}

// ErrorResponse структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Course not found"`
}

// OK возвращает успешный Response с сообщением.
func OK(msg string) Response {
	return Response{Success: true, Message: msg}
}

// OKWithData возвращает успешный Response с данными.
func OKWithData(msg string, data any) Response {
	return Response{Success: true, Message: msg, Data: data}
}

// OKWithUser возвращает успешный Response с пользователем.
func OKWithUser(msg string, user any) Response {
	return Response{Success: true, Message: msg, User: user}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{Success: false, Message: msg}
}

// Fail пишет ответ с ошибкой. Статус и сообщение берутся из apperr.Error,
// любая другая ошибка превращается в 500 без раскрытия текста причины.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status := apperr.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", slog.Int("status", status), sl.Err(err))
	} else {
		log.Info("request rejected", slog.Int("status", status), sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, Error(apperr.Message(err)))
}

// BadRequest отвечает 400 с сообщением.
func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, Error(msg))
}

// ValidationError формирует Response на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s is required", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s must be a valid uuid", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s is not valid", err.Field()))
		}
	}
	return Response{
		Success: false,
		Message: strings.Join(errsMsgs, ", "),
	}
}

// Invalid отвечает 400 с текстом ошибок валидации.
func Invalid(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusBadRequest)
	if errs, ok := err.(validator.ValidationErrors); ok {
		render.JSON(w, r, ValidationError(errs))
		return
	}
	render.JSON(w, r, Error("All fields are required"))
}
