package middlewarectx

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/magabrotheeeer/lms-server/internal/http/response"
	"github.com/magabrotheeeer/lms-server/internal/lib/apperr"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/lib/upload"
)

const multipartMemory = 32 << 20

// SingleFile разбирает multipart тело и проверяет файл из поля field до вызова обработчика.
// Файл необязателен: если поля нет, запрос проходит дальше без него.
// Запросы не в multipart формате пропускаются без изменений.
func SingleFile(log *slog.Logger, field string, maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SingleFile"
			log := sl.ForRequest(log, op, r)

			if !isMultipart(r) {
				next.ServeHTTP(w, r)
				return
			}

			// запас на остальные поля формы
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
			if err := r.ParseMultipartForm(multipartMemory); err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					response.Fail(w, r, log, apperr.BadRequest("File is too large"))
					return
				}
				response.Fail(w, r, log, apperr.BadRequest("Invalid multipart form"))
				return
			}

			files := r.MultipartForm.File[field]
			if len(files) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			if len(files) > 1 {
				response.Fail(w, r, log, apperr.BadRequest("Only one file is allowed in field "+field))
				return
			}
			if err := upload.Check(files[0], maxBytes); err != nil {
				response.Fail(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(upload.WithFile(r.Context(), files[0])))
		})
	}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "multipart/form-data"
}
