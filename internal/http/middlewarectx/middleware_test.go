package middlewarectx_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lms-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-server/internal/lib/apperr"
	"github.com/magabrotheeeer/lms-server/internal/lib/jwt"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/lib/upload"
	"github.com/magabrotheeeer/lms-server/internal/models"
)

type UserLoaderMock struct{ mock.Mock }

func (m *UserLoaderMock) UserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func okHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantUserID != "" {
			user, ok := middlewarectx.UserFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, wantUserID, user.ID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	maker := jwt.NewJWTMaker("secret", time.Hour)
	active := &models.User{ID: "u1", Role: models.RoleUser, IsActive: true}
	token, err := maker.GenerateToken(active)
	require.NoError(t, err)
	foreign, err := jwt.NewJWTMaker("other", time.Hour).GenerateToken(active)
	require.NoError(t, err)

	tests := []struct {
		name       string
		prepare    func(r *http.Request)
		setupMock  func(m *UserLoaderMock)
		wantStatus int
	}{
		{
			name:       "no token",
			prepare:    func(_ *http.Request) {},
			setupMock:  func(_ *UserLoaderMock) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "cookie token",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: token}) },
			setupMock: func(m *UserLoaderMock) {
				m.On("UserByID", mock.Anything, "u1").Return(active, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:    "bearer token",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			setupMock: func(m *UserLoaderMock) {
				m.On("UserByID", mock.Anything, "u1").Return(active, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "foreign signature",
			prepare:    func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: foreign}) },
			setupMock:  func(_ *UserLoaderMock) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "deleted user",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: token}) },
			setupMock: func(m *UserLoaderMock) {
				m.On("UserByID", mock.Anything, "u1").Return(nil, apperr.NotFound("User not found")).Once()
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "inactive user",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: token}) },
			setupMock: func(m *UserLoaderMock) {
				m.On("UserByID", mock.Anything, "u1").Return(&models.User{ID: "u1"}, nil).Once()
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "store unavailable",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: token}) },
			setupMock: func(m *UserLoaderMock) {
				m.On("UserByID", mock.Anything, "u1").Return(nil, errors.New("dial tcp: connection refused")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &UserLoaderMock{}
			tt.setupMock(users)
			h := middlewarectx.Authenticate(sl.Discard(), maker, users, "token")(okHandler(t, "u1"))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			switch tt.wantStatus {
			case http.StatusUnauthorized:
				assert.Contains(t, rr.Body.String(), "Unauthenticated, please login again")
			case http.StatusInternalServerError:
				assert.Contains(t, rr.Body.String(), "Internal server error")
				assert.NotContains(t, rr.Body.String(), "connection refused")
			}
			users.AssertExpectations(t)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
	}{
		{"no user", nil, http.StatusUnauthorized},
		{"allowed role", &models.User{ID: "a", Role: models.RoleAdmin}, http.StatusOK},
		{"other allowed role", &models.User{ID: "t", Role: models.RoleTutor}, http.StatusOK},
		{"forbidden role", &models.User{ID: "u", Role: models.RoleUser}, http.StatusForbidden},
	}

	h := middlewarectx.RequireRoles(sl.Discard(), models.RoleAdmin, models.RoleTutor)(okHandler(t, ""))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				req = req.WithContext(middlewarectx.WithUser(req.Context(), tt.user))
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Contains(t, rr.Body.String(), "You do not have permission to access this route")
			}
		})
	}
}

func TestRequireSubscription(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
	}{
		{"active subscriber", &models.User{Subscription: models.Subscription{ID: "s", Status: "active"}}, http.StatusOK},
		{"admin without subscription", &models.User{Role: models.RoleAdmin}, http.StatusOK},
		{"created subscription", &models.User{Subscription: models.Subscription{ID: "s", Status: "created"}}, http.StatusForbidden},
		{"no subscription", &models.User{}, http.StatusForbidden},
	}

	h := middlewarectx.RequireSubscription(sl.Discard())(okHandler(t, ""))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(middlewarectx.WithUser(req.Context(), tt.user))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Contains(t, rr.Body.String(), "Please subscribe to access this route")
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	h := middlewarectx.RateLimit(sl.Discard(), 0.001, 2)(okHandler(t, ""))

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = remoteAddr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, send("10.0.0.1:5000"))
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// другой порт того же клиента делит с ним лимит
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:6000"))
	// остальные клиенты не страдают от шумного соседа
	assert.Equal(t, http.StatusOK, send("10.0.0.2:5000"))
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Go"))
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSingleFile(t *testing.T) {
	var gotFile string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFile = ""
		if fh, ok := upload.FromContext(r.Context()); ok {
			gotFile = fh.Filename
		}
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.SingleFile(sl.Discard(), "thumbnail", 1024)(next)

	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		wantStatus int
		wantFile   string
		wantMsg    string
	}{
		{
			name:       "accepted image",
			req:        func(t *testing.T) *http.Request { return multipartRequest(t, "thumbnail", "a.png", []byte("png")) },
			wantStatus: http.StatusOK,
			wantFile:   "a.png",
		},
		{
			name:       "no file",
			req:        func(t *testing.T) *http.Request { return multipartRequest(t, "", "", nil) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "unsupported extension",
			req:        func(t *testing.T) *http.Request { return multipartRequest(t, "thumbnail", "a.exe", []byte("x")) },
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Unsupported file type! .exe",
		},
		{
			name: "too large",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "thumbnail", "a.png", bytes.Repeat([]byte("x"), 2048))
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "File is too large",
		},
		{
			name: "json passes through",
			req: func(_ *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Go"}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, tt.req(t))
			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantFile, gotFile)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, rr.Body.String(), tt.wantMsg)
			}
		})
	}
}

func TestMetrics_PassesThrough(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middlewarectx.Metrics)
	r.Get("/course/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/course/42", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
}
