package request

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	FullName string `json:"fullName" form:"fullName"`
	Email    string `json:"email" form:"email"`
}

func TestDecode(t *testing.T) {
	var mp bytes.Buffer
	mw := multipart.NewWriter(&mp)
	require.NoError(t, mw.WriteField("fullName", "john"))
	require.NoError(t, mw.WriteField("email", "a@x.com"))
	require.NoError(t, mw.Close())

	urlencoded := url.Values{"fullName": {"john"}, "email": {"a@x.com"}}.Encode()

	tests := []struct {
		name        string
		body        string
		contentType string
		wantErr     bool
	}{
		{name: "json", body: `{"fullName":"john","email":"a@x.com"}`, contentType: "application/json"},
		{name: "no content type defaults to json", body: `{"fullName":"john","email":"a@x.com"}`},
		{name: "multipart", body: mp.String(), contentType: mw.FormDataContentType()},
		{name: "urlencoded", body: urlencoded, contentType: "application/x-www-form-urlencoded"},
		{name: "broken json", body: `{"fullName":`, contentType: "application/json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			var got payload
			err := Decode(req, &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, payload{FullName: "john", Email: "a@x.com"}, got)
		})
	}
}

func TestDecode_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	var got payload
	assert.ErrorIs(t, Decode(req, &got), ErrEmptyBody)
}
