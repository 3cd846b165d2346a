package upload

import (
	"context"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/lms-server/internal/lib/apperr"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		max      int64
		wantMsg  string
	}{
		{name: "png ok", filename: "a.png", size: 10, max: 100},
		{name: "upper case ext", filename: "A.JPG", size: 10, max: 100},
		{name: "mp4 ok", filename: "lecture.mp4", size: 100, max: 100},
		{name: "pdf rejected", filename: "doc.pdf", size: 10, max: 100, wantMsg: "Unsupported file type! .pdf"},
		{name: "no ext", filename: "file", size: 10, max: 100, wantMsg: "Unsupported file type! "},
		{name: "too large", filename: "a.webp", size: 101, max: 100, wantMsg: "File is too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(&multipart.FileHeader{Filename: tt.filename, Size: tt.size}, tt.max)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, http.StatusBadRequest, apperr.StatusCode(err))
			assert.Equal(t, tt.wantMsg, apperr.Message(err))
		})
	}
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	fh := &multipart.FileHeader{Filename: "a.png"}
	got, ok := FromContext(WithFile(context.Background(), fh))
	assert.True(t, ok)
	assert.Same(t, fh, got)
}
