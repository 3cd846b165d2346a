package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lms-server/internal/lib/apperr"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
)

func TestOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := OKWithData("done", data)

	assert.True(t, resp.Success)
	assert.Equal(t, "done", resp.Message)
	assert.Equal(t, data, resp.Data)
}

func TestFail(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "app error", err: apperr.NotFound("Course not found"), wantStatus: http.StatusNotFound, wantMsg: "Course not found"},
		{name: "forbidden", err: apperr.Forbidden("nope"), wantStatus: http.StatusForbidden, wantMsg: "nope"},
		{name: "opaque error", err: errors.New("pq: relation does not exist"), wantStatus: http.StatusInternalServerError, wantMsg: apperr.InternalMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()

			Fail(rr, req, sl.Discard(), tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.NotContains(t, rr.Body.String(), "relation")
		})
	}
}

func TestValidationError(t *testing.T) {
	type TestStruct struct {
		Email       string `validate:"required,email"`
		Description string `validate:"min=8"`
	}

	err := validator.New().Struct(TestStruct{Email: "nope", Description: "short"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "Email must be a valid email")
	assert.Contains(t, resp.Message, "Description must be at least 8 characters")
}

func TestInvalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rr := httptest.NewRecorder()

	Invalid(rr, req, errors.New("decode failed"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "All fields are required")
}
