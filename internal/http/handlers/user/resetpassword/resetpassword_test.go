package resetpassword

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/lms-server/internal/lib/apperr"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) ResetPassword(ctx context.Context, token, password string) error {
	return m.Called(ctx, token, password).Error(0)
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(m *ServiceMock)
		wantStatus int
		wantBody   string
	}{
		{
			name: "success",
			body: `{"password":"newpass12"}`,
			setupMock: func(m *ServiceMock) {
				m.On("ResetPassword", mock.Anything, "abc123", "newpass12").Return(nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   "Password changed successfully",
		},
		{
			name: "expired token",
			body: `{"password":"newpass12"}`,
			setupMock: func(m *ServiceMock) {
				m.On("ResetPassword", mock.Anything, "abc123", "newpass12").
					Return(apperr.BadRequest("Token is invalid or expired, please try again")).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Token is invalid or expired, please try again",
		},
		{
			name:       "short password",
			body:       `{"password":"x"}`,
			setupMock:  func(_ *ServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Password must be at least 8 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &ServiceMock{}
			tt.setupMock(svc)
			r := chi.NewRouter()
			r.Post("/user/reset-password/{token}", New(sl.Discard(), svc).ServeHTTP)

			req := httptest.NewRequest(http.MethodPost, "/user/reset-password/abc123", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
