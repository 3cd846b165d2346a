// Package mediahost загружает медиафайлы во внешнее хранилище Supabase Storage
// и удаляет их оттуда. Сервисы работают только с models.Media.
package mediahost

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	storage "github.com/supabase-community/storage-go"

	"github.com/magabrotheeeer/lms-server/internal/config"
	"github.com/magabrotheeeer/lms-server/internal/models"
)

// Папки внутри бакета.
const (
	FolderAvatars    = "avatars"
	FolderThumbnails = "thumbnails"
	FolderLectures   = "lectures"
)

// Host клиент медиахостинга.
type Host struct {
	publicBase string
	upload     func(path string, r io.Reader, contentType string) error
	remove     func(path string) error
}

// New создаёт клиент Supabase Storage для бакета из конфига.
func New(cfg config.Supabase) *Host {
	base := strings.TrimRight(cfg.SupabaseURL, "/")
	client := storage.NewClient(base+"/storage/v1", cfg.SupabaseKey, nil)
	bucket := cfg.SupabaseBucket

	return &Host{
		publicBase: base + "/storage/v1/object/public/" + bucket + "/",
		upload: func(path string, r io.Reader, contentType string) error {
			upsert := false
			_, err := client.UploadFile(bucket, path, r, storage.FileOptions{
				ContentType: &contentType,
				Upsert:      &upsert,
			})
			return err
		},
		remove: func(path string) error {
			_, err := client.RemoveFile(bucket, []string{path})
			return err
		},
	}
}

// ObjectName строит уникальное имя объекта из исходного имени файла.
func ObjectName(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := slug.Make(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("lms/%s/%s-%s%s", folder, base, uuid.NewString()[:8], ext)
}

// Upload загружает файл в папку folder.
func (h *Host) Upload(ctx context.Context, fh *multipart.FileHeader, folder string) (models.Media, error) {
	const op = "mediahost.Upload"
	if err := ctx.Err(); err != nil {
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}

	f, err := fh.Open()
	if err != nil {
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = f.Close()
	}()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := ObjectName(folder, fh.Filename)
	if err := h.upload(name, f, contentType); err != nil {
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.Media{PublicID: name, SecureURL: h.publicBase + name}, nil
}

// Destroy удаляет объект. Пустой publicID игнорируется.
func (h *Host) Destroy(ctx context.Context, publicID string) error {
	const op = "mediahost.Destroy"
	if publicID == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := h.remove(publicID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
