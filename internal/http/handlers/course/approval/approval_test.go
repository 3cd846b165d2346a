package approval

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/models"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) SetApproval(ctx context.Context, id string, status models.ApprovalStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		callSvc    bool
		wantStatus int
	}{
		{"approve", `{"status":"Approved"}`, true, http.StatusOK},
		{"unknown status", `{"status":"Maybe"}`, false, http.StatusBadRequest},
		{"empty", `{}`, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &ServiceMock{}
			if tt.callSvc {
				svc.On("SetApproval", mock.Anything, "c1", models.CourseApproved).Return(nil).Once()
			}
			r := chi.NewRouter()
			r.Patch("/course/{id}/approval", New(sl.Discard(), svc).ServeHTTP)

			req := httptest.NewRequest(http.MethodPatch, "/course/c1/approval", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			svc.AssertExpectations(t)
		})
	}
}
