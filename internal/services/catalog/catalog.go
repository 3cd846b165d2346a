// Package catalog реализует каталог курсов и лекций.
//
// Курс принадлежит своему автору: изменять его и его лекции могут только
// автор и администратор. Лекции хранятся внутри курса и ищутся линейным
// проходом по списку. Публичный список одобренных курсов кэшируется
// и сбрасывается при любом изменении курса или лекции.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/lms-server/internal/lib/apperr"
	"github.com/magabrotheeeer/lms-server/internal/lib/sl"
	"github.com/magabrotheeeer/lms-server/internal/mediahost"
	"github.com/magabrotheeeer/lms-server/internal/metrics"
	"github.com/magabrotheeeer/lms-server/internal/models"
	"github.com/magabrotheeeer/lms-server/internal/storage/repository"
)

// ApprovedCoursesKey ключ кэша публичного каталога.
const ApprovedCoursesKey = "courses:approved"

var errLectureNotFound = errors.New("lecture not found")

const minDescriptionLen = 8

const invalidCourse = "Course title, description and category are required, description must be at least 8 characters"

// Repository определяет методы хранилища курсов.
type Repository interface {
	CreateCourse(ctx context.Context, c models.Course) (*models.Course, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	ListApprovedCourses(ctx context.Context) ([]models.Course, error)
	ListCoursesByOwner(ctx context.Context, ownerID string) ([]models.Course, error)
	UpdateCourse(ctx context.Context, c models.Course) error
	SetCourseStatus(ctx context.Context, id string, status models.ApprovalStatus) error
	DeactivateCourse(ctx context.Context, id string) error
	UpdateLectures(ctx context.Context, courseID string, mutate func([]models.Lecture) ([]models.Lecture, error)) error
}

// Cache определяет методы кэша.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// MediaHost загружает и удаляет медиафайлы.
type MediaHost interface {
	Upload(ctx context.Context, fh *multipart.FileHeader, folder string) (models.Media, error)
	Destroy(ctx context.Context, publicID string) error
}

// CourseInput поля курса. При обновлении пустые строки и nil файл означают "не менять".
type CourseInput struct {
	Title       string
	Description string
	Category    string
	Thumbnail   *multipart.FileHeader
}

func (in CourseInput) trimmed() CourseInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	return in
}

// validDescription повторяет CHECK ограничение таблицы courses.
func validDescription(d string) bool {
	return utf8.RuneCountInString(d) >= minDescriptionLen
}

// LectureInput поля лекции. При обновлении пустые значения означают "не менять".
type LectureInput struct {
	Title       string
	Description string
	Media       *multipart.FileHeader
}

// Service сервис каталога.
type Service struct {
	repo  Repository
	cache Cache
	media MediaHost
	ttl   time.Duration
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, media MediaHost, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		media: media,
		ttl:   ttl,
		log:   log,
	}
}

// ListCourses возвращает одобренные курсы без лекций, сначала пытаясь взять их из кэша.
func (s *Service) ListCourses(ctx context.Context) ([]models.Course, error) {
	const op = "services.catalog.ListCourses"
	var cached []models.Course
	found, err := s.cache.Get(ctx, ApprovedCoursesKey, &cached)
	if err != nil {
		s.log.Warn("failed to read catalog cache", sl.Err(err))
	}
	if found {
		metrics.CatalogCache.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.CatalogCache.WithLabelValues("miss").Inc()

	courses, err := s.repo.ListApprovedCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if courses == nil {
		courses = []models.Course{}
	}
	if err := s.cache.Set(ctx, ApprovedCoursesKey, courses, s.ttl); err != nil {
		s.log.Warn("failed to write catalog cache", sl.Err(err))
	}
	return courses, nil
}

// GetCourse возвращает курс с лекциями.
// Неодобренный курс виден только администратору и автору.
func (s *Service) GetCourse(ctx context.Context, user *models.User, id string) (*models.Course, error) {
	course, err := s.loadCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.Status != models.CourseApproved && !canModify(user, course) {
		return nil, apperr.NotFound("Course not found")
	}
	return course, nil
}

// MyCourses возвращает курсы, созданные пользователем, в любом статусе.
func (s *Service) MyCourses(ctx context.Context, user *models.User) ([]models.Course, error) {
	courses, err := s.repo.ListCoursesByOwner(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("services.catalog.MyCourses: %w", err)
	}
	return courses, nil
}

// CreateCourse создаёт курс. Курс администратора сразу одобрен, курс преподавателя ждёт модерации.
func (s *Service) CreateCourse(ctx context.Context, user *models.User, in CourseInput) (*models.Course, error) {
	const op = "services.catalog.CreateCourse"
	status := models.CoursePending
	if user.Role == models.RoleAdmin {
		status = models.CourseApproved
	}

	in = in.trimmed()
	if in.Title == "" || in.Category == "" || !validDescription(in.Description) {
		return nil, apperr.BadRequest(invalidCourse)
	}

	var thumb models.Media
	if in.Thumbnail != nil {
		var err error
		thumb, err = s.media.Upload(ctx, in.Thumbnail, mediahost.FolderThumbnails)
		if err != nil {
			return nil, apperr.Gateway("File not uploaded, please try again", err)
		}
	}

	course, err := s.repo.CreateCourse(ctx, models.Course{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Thumbnail:   thumb,
		CreatedBy:   user.ID,
		Status:      status,
	})
	if err != nil {
		s.destroyQuietly(ctx, thumb.PublicID)
		if errors.Is(err, repository.ErrConstraint) {
			return nil, apperr.BadRequest(invalidCourse)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)
	s.log.Info("course created", slog.String("course_id", course.ID), slog.String("status", string(status)))
	return course, nil
}

// UpdateCourse частично обновляет курс. Новая обложка загружается до удаления старой.
func (s *Service) UpdateCourse(ctx context.Context, user *models.User, id string, in CourseInput) (*models.Course, error) {
	const op = "services.catalog.UpdateCourse"
	course, err := s.ownedCourse(ctx, user, id)
	if err != nil {
		return nil, err
	}

	in = in.trimmed()
	if in.Description != "" && !validDescription(in.Description) {
		return nil, apperr.BadRequest(invalidCourse)
	}

	updated := *course
	if in.Title != "" {
		updated.Title = in.Title
	}
	if in.Description != "" {
		updated.Description = in.Description
	}
	if in.Category != "" {
		updated.Category = in.Category
	}
	if in.Thumbnail != nil {
		thumb, err := s.media.Upload(ctx, in.Thumbnail, mediahost.FolderThumbnails)
		if err != nil {
			return nil, apperr.Gateway("File not uploaded, please try again", err)
		}
		updated.Thumbnail = thumb
	}

	if err := s.repo.UpdateCourse(ctx, updated); err != nil {
		if in.Thumbnail != nil {
			s.destroyQuietly(ctx, updated.Thumbnail.PublicID)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Course not found")
		}
		if errors.Is(err, repository.ErrConstraint) {
			return nil, apperr.BadRequest(invalidCourse)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if in.Thumbnail != nil {
		s.destroyQuietly(ctx, course.Thumbnail.PublicID)
	}
	s.invalidate(ctx)
	return &updated, nil
}

// DeleteCourse мягко удаляет курс. Медиафайлы остаются в хостинге.
func (s *Service) DeleteCourse(ctx context.Context, user *models.User, id string) error {
	const op = "services.catalog.DeleteCourse"
	if _, err := s.ownedCourse(ctx, user, id); err != nil {
		return err
	}
	if err := s.repo.DeactivateCourse(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Course not found")
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)
	s.log.Info("course deactivated", slog.String("course_id", id))
	return nil
}

// SetApproval меняет статус модерации курса.
func (s *Service) SetApproval(ctx context.Context, id string, status models.ApprovalStatus) error {
	const op = "services.catalog.SetApproval"
	if !status.Valid() {
		return apperr.BadRequest("Status must be one of Pending, Approved, Declined")
	}
	if err := s.repo.SetCourseStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Course not found")
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)
	return nil
}

// ListLectures возвращает лекции видимого пользователю курса.
func (s *Service) ListLectures(ctx context.Context, user *models.User, courseID string) ([]models.Lecture, error) {
	course, err := s.GetCourse(ctx, user, courseID)
	if err != nil {
		return nil, err
	}
	if course.Lectures == nil {
		return []models.Lecture{}, nil
	}
	return course.Lectures, nil
}

// GetLecture возвращает одну лекцию курса.
func (s *Service) GetLecture(ctx context.Context, user *models.User, courseID, lectureID string) (*models.Lecture, error) {
	course, err := s.GetCourse(ctx, user, courseID)
	if err != nil {
		return nil, err
	}
	idx := findLecture(course.Lectures, lectureID)
	if idx < 0 {
		return nil, apperr.NotFound("Lecture not found")
	}
	lecture := course.Lectures[idx]
	return &lecture, nil
}

// AddLecture добавляет лекцию в конец списка курса.
func (s *Service) AddLecture(ctx context.Context, user *models.User, courseID string, in LectureInput) (*models.Lecture, error) {
	const op = "services.catalog.AddLecture"
	if in.Media == nil {
		return nil, apperr.BadRequest("Lecture file is required")
	}
	if _, err := s.ownedCourse(ctx, user, courseID); err != nil {
		return nil, err
	}

	media, err := s.media.Upload(ctx, in.Media, mediahost.FolderLectures)
	if err != nil {
		return nil, apperr.Gateway("File not uploaded, please try again", err)
	}
	lecture := models.Lecture{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Lecture:     media,
	}

	err = s.repo.UpdateLectures(ctx, courseID, func(list []models.Lecture) ([]models.Lecture, error) {
		return append(list, lecture), nil
	})
	if err != nil {
		s.destroyQuietly(ctx, media.PublicID)
		return nil, s.lectureErr(op, err)
	}
	s.invalidate(ctx)
	return &lecture, nil
}

// UpdateLecture частично обновляет лекцию. Новый файл загружается до удаления старого.
func (s *Service) UpdateLecture(ctx context.Context, user *models.User, courseID, lectureID string, in LectureInput) (*models.Lecture, error) {
	const op = "services.catalog.UpdateLecture"
	if _, err := s.ownedCourse(ctx, user, courseID); err != nil {
		return nil, err
	}

	var media *models.Media
	if in.Media != nil {
		uploaded, err := s.media.Upload(ctx, in.Media, mediahost.FolderLectures)
		if err != nil {
			return nil, apperr.Gateway("File not uploaded, please try again", err)
		}
		media = &uploaded
	}

	var result, previous models.Lecture
	err := s.repo.UpdateLectures(ctx, courseID, func(list []models.Lecture) ([]models.Lecture, error) {
		idx := findLecture(list, lectureID)
		if idx < 0 {
			return nil, errLectureNotFound
		}
		previous = list[idx]
		if v := strings.TrimSpace(in.Title); v != "" {
			list[idx].Title = v
		}
		if v := strings.TrimSpace(in.Description); v != "" {
			list[idx].Description = v
		}
		if media != nil {
			list[idx].Lecture = *media
		}
		result = list[idx]
		return list, nil
	})
	if err != nil {
		if media != nil {
			s.destroyQuietly(ctx, media.PublicID)
		}
		return nil, s.lectureErr(op, err)
	}
	if media != nil {
		s.destroyQuietly(ctx, previous.Lecture.PublicID)
	}
	s.invalidate(ctx)
	return &result, nil
}

// DeleteLecture удаляет лекцию из курса и её файл из хостинга.
func (s *Service) DeleteLecture(ctx context.Context, user *models.User, courseID, lectureID string) error {
	const op = "services.catalog.DeleteLecture"
	if _, err := s.ownedCourse(ctx, user, courseID); err != nil {
		return err
	}

	var removed models.Lecture
	err := s.repo.UpdateLectures(ctx, courseID, func(list []models.Lecture) ([]models.Lecture, error) {
		idx := findLecture(list, lectureID)
		if idx < 0 {
			return nil, errLectureNotFound
		}
		removed = list[idx]
		return append(list[:idx], list[idx+1:]...), nil
	})
	if err != nil {
		return s.lectureErr(op, err)
	}
	s.destroyQuietly(ctx, removed.Lecture.PublicID)
	s.invalidate(ctx)
	return nil
}

// findLecture возвращает индекс лекции в списке или -1.
func findLecture(list []models.Lecture, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func canModify(user *models.User, course *models.Course) bool {
	if user == nil {
		return false
	}
	return user.Role == models.RoleAdmin || course.CreatedBy == user.ID
}

func (s *Service) loadCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.GetCourse(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("services.catalog.loadCourse: %w", err)
	}
	return course, nil
}

func (s *Service) ownedCourse(ctx context.Context, user *models.User, id string) (*models.Course, error) {
	course, err := s.loadCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(user, course) {
		return nil, apperr.Forbidden("You do not have permission to modify this course")
	}
	return course, nil
}

func (s *Service) lectureErr(op string, err error) error {
	switch {
	case errors.Is(err, errLectureNotFound):
		return apperr.NotFound("Lecture not found")
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("Course not found")
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, ApprovedCoursesKey); err != nil {
		s.log.Warn("failed to invalidate catalog cache", sl.Err(err))
	}
}

func (s *Service) destroyQuietly(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if err := s.media.Destroy(ctx, publicID); err != nil {
		s.log.Warn("failed to destroy media", slog.String("public_id", publicID), sl.Err(err))
	}
}
