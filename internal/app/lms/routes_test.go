package lms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lms-server/internal/cache"
	"github.com/magabrotheeeer/lms-server/internal/config"
	"github.com/magabrotheeeer/lms-server/internal/lib/jwt"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/models"
	"github.com/magabrotheeeer/lms-server/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/lms-server/internal/services/auth"
	"github.com/magabrotheeeer/lms-server/internal/services/catalog"
	contactservice "github.com/magabrotheeeer/lms-server/internal/services/contact"
	statsservice "github.com/magabrotheeeer/lms-server/internal/services/stats"
	"github.com/magabrotheeeer/lms-server/internal/services/subscription"
	"github.com/magabrotheeeer/lms-server/internal/storage/repository"
)

type userRepo struct {
	authservice.Repository
	users map[string]*models.User
}

func (r *userRepo) GetUser(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type courseRepo struct {
	catalog.Repository
	courses []models.Course
	calls   int
}

func (r *courseRepo) ListApprovedCourses(context.Context) ([]models.Course, error) {
	r.calls++
	return r.courses, nil
}

type testServer struct {
	router  chi.Router
	tokens  *jwt.MakerImpl
	courses *courseRepo
	cfg     *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	redisCache := &cache.Cache{Db: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = redisCache.Close() })

	cfg := &config.Config{
		FrontendURL: "http://localhost:5173",
		Cookie:      config.Cookie{CookieName: "token", CookieMaxAge: time.Hour},
		RateLimit:   config.RateLimit{RPS: 100, Burst: 100},
		Upload:      config.Upload{ImageMaxBytes: 1 << 20, VideoMaxBytes: 1 << 20},
	}
	log := sl.Discard()
	tokens := jwt.NewJWTMaker("test-secret", time.Hour)
	users := &userRepo{users: map[string]*models.User{
		"admin-1": {ID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true},
		"user-1":  {ID: "user-1", Email: "user@example.com", Role: models.RoleUser, IsActive: true},
	}}
	courses := &courseRepo{courses: []models.Course{{ID: "c1", Title: "Go basics", Status: models.CourseApproved, IsActive: true}}}

	services := Services{
		Auth:         authservice.NewService(users, tokens, nil, nil, authservice.Options{}, log),
		Catalog:      catalog.NewService(courses, redisCache, nil, time.Minute, log),
		Subscription: subscription.NewService(nil, paymentprovider.NewClient("rzp_test_key", "secret", "http://127.0.0.1:0", time.Second), "secret", "plan_1", log),
		Contact:      contactservice.NewService(nil, nil, "", log),
		Stats:        statsservice.NewService(nil),
		Tokens:       tokens,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, cfg, log, services)
	return &testServer{router: router, tokens: tokens, courses: courses, cfg: cfg}
}

func (s *testServer) do(t *testing.T, method, path string, user *models.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if user != nil {
		token, err := s.tokens.GenerateToken(user)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: s.cfg.CookieName, Value: token})
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func TestRoutes(t *testing.T) {
	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	user := &models.User{ID: "user-1", Role: models.RoleUser}

	tests := []struct {
		name         string
		method       string
		path         string
		user         *models.User
		expectedCode int
		expectedBody string
	}{
		{
			name:         "ping",
			method:       http.MethodGet,
			path:         "/ping",
			expectedCode: http.StatusOK,
			expectedBody: "pong",
		},
		{
			name:         "unknown route",
			method:       http.MethodGet,
			path:         "/nope",
			expectedCode: http.StatusNotFound,
			expectedBody: "OPPS!! route not found",
		},
		{
			name:         "me without session",
			method:       http.MethodGet,
			path:         "/api/v1/user/me",
			expectedCode: http.StatusUnauthorized,
			expectedBody: "Unauthenticated, please login again",
		},
		{
			name:         "me with session",
			method:       http.MethodGet,
			path:         "/api/v1/user/me",
			user:         user,
			expectedCode: http.StatusOK,
			expectedBody: "user@example.com",
		},
		{
			name:         "stats for plain user",
			method:       http.MethodGet,
			path:         "/api/v1/stats/users",
			user:         user,
			expectedCode: http.StatusForbidden,
			expectedBody: "You do not have permission to access this route",
		},
		{
			name:         "course detail without subscription",
			method:       http.MethodGet,
			path:         "/api/v1/course/c1",
			user:         user,
			expectedCode: http.StatusForbidden,
			expectedBody: "Please subscribe to access this route",
		},
		{
			name:         "admin can not subscribe",
			method:       http.MethodPost,
			path:         "/api/v1/payment/subscribe",
			user:         admin,
			expectedCode: http.StatusBadRequest,
			expectedBody: "Admin can not purchase a subscription",
		},
		{
			name:         "razorpay key",
			method:       http.MethodGet,
			path:         "/api/v1/payment/razorpay-key",
			user:         user,
			expectedCode: http.StatusOK,
			expectedBody: "rzp_test_key",
		},
	}

	srv := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := srv.do(t, tt.method, tt.path, tt.user)
			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestRoutes_CourseListServedFromCache(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 2; i++ {
		rr := srv.do(t, http.MethodGet, "/api/v1/course", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, strings.Contains(rr.Body.String(), "Go basics"))
	}
	assert.Equal(t, 1, srv.courses.calls)
}
