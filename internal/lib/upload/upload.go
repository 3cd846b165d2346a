// Package upload проверяет загружаемые файлы и передаёт их обработчикам через контекст.
package upload

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/magabrotheeeer/lms-server/internal/lib/apperr"
)

type ctxKey struct{}

// AllowedExtensions расширения, которые принимает сервер.
var AllowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".webp": {},
	".png":  {},
	".mp4":  {},
}

// Check проверяет расширение и размер файла.
func Check(fh *multipart.FileHeader, maxBytes int64) error {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return apperr.BadRequest("Unsupported file type! " + ext)
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return apperr.BadRequest("File is too large")
	}
	return nil
}

// WithFile кладёт файл в контекст запроса.
func WithFile(ctx context.Context, fh *multipart.FileHeader) context.Context {
	return context.WithValue(ctx, ctxKey{}, fh)
}

// FromContext возвращает файл, если он был загружен.
func FromContext(ctx context.Context) (*multipart.FileHeader, bool) {
	fh, ok := ctx.Value(ctxKey{}).(*multipart.FileHeader)
	return fh, ok && fh != nil
}
