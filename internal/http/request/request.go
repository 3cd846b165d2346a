// Package request декодирует тело запроса независимо от его формата.
package request

import (
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/ajg/form"
	"github.com/go-chi/render"
)

// ErrEmptyBody тело запроса отсутствует.
var ErrEmptyBody = errors.New("request body is empty")

const maxMemory = 32 << 20

// Decode разбирает JSON, urlencoded и multipart тела в v.
// Для форм используются теги `form`, для JSON теги `json`.
func Decode(r *http.Request, v any) error {
	const op = "request.Decode"
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("%s: %w", op, ErrEmptyBody)
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if r.MultipartForm == nil {
			if err := r.ParseMultipartForm(maxMemory); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
		if err := formDecoder().DecodeValues(v, r.MultipartForm.Value); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := formDecoder().DecodeValues(v, r.PostForm); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	default:
		if err := render.DecodeJSON(r.Body, v); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}
}

// formDecoder пропускает поля, которых нет в структуре.
func formDecoder() *form.Decoder {
	d := form.NewDecoder(nil)
	d.IgnoreUnknownKeys(true)
	return d
}
