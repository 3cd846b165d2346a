package create

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/lms-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/models"
	"github.com/magabrotheeeer/lms-server/internal/services/catalog"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) CreateCourse(ctx context.Context, user *models.User, in catalog.CourseInput) (*models.Course, error) {
	args := m.Called(ctx, user, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func TestHandler_ServeHTTP(t *testing.T) {
	tutor := &models.User{ID: "t1", Role: models.RoleTutor}

	tests := []struct {
		name       string
		body       string
		setupMock  func(m *ServiceMock)
		wantStatus int
		wantBody   string
	}{
		{
			name: "created pending",
			body: `{"title":"Go","description":"learn go fast","category":"dev"}`,
			setupMock: func(m *ServiceMock) {
				m.On("CreateCourse", mock.Anything, tutor, catalog.CourseInput{Title: "Go", Description: "learn go fast", Category: "dev"}).
					Return(&models.Course{ID: "c1", Status: models.CoursePending}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"status":"Pending"`,
		},
		{
			name:       "short description",
			body:       `{"title":"Go","description":"short","category":"dev"}`,
			setupMock:  func(_ *ServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Description must be at least 8 characters",
		},
		{
			name: "padded fields trimmed",
			body: `{"title":"  Go  ","description":"  learn go fast ","category":" dev"}`,
			setupMock: func(m *ServiceMock) {
				m.On("CreateCourse", mock.Anything, tutor, catalog.CourseInput{Title: "Go", Description: "learn go fast", Category: "dev"}).
					Return(&models.Course{ID: "c1", Status: models.CoursePending}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"id":"c1"`,
		},
		{
			name:       "blank title",
			body:       `{"title":"   ","description":"learn go fast","category":"dev"}`,
			setupMock:  func(_ *ServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Title is required",
		},
		{
			name:       "description short after trimming",
			body:       `{"title":"Go","description":"       x","category":"dev"}`,
			setupMock:  func(_ *ServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Description must be at least 8 characters",
		},
		{
			name:       "missing category",
			body:       `{"title":"Go","description":"learn go fast"}`,
			setupMock:  func(_ *ServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Category is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &ServiceMock{}
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/course", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(middlewarectx.WithUser(req.Context(), tutor))
			rr := httptest.NewRecorder()
			New(sl.Discard(), svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
