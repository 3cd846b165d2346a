package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/lms-server/internal/models"
)

// courseColumns список колонок курса; lecturesExpr подставляется, чтобы списки
// курсов не тянули JSONB с лекциями.
func courseColumns(lecturesExpr string) string {
	return `id, title, description, category, thumbnail_public_id, thumbnail_secure_url, ` +
		lecturesExpr + `, jsonb_array_length(lectures), created_by, status, is_active, created_at, updated_at`
}

func scanCourse(row rowScanner) (*models.Course, error) {
	c := &models.Course{}
	var lectures []byte
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Category,
		&c.Thumbnail.PublicID, &c.Thumbnail.SecureURL, &lectures, &c.NumbersOfLectures,
		&c.CreatedBy, &c.Status, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if len(lectures) > 0 {
		if err := json.Unmarshal(lectures, &c.Lectures); err != nil {
			return nil, fmt.Errorf("decode lectures: %w", err)
		}
	}
	return c, nil
}

func (s *Storage) queryCourses(ctx context.Context, op, query string, args ...any) ([]models.Course, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateCourse сохраняет курс без лекций.
func (s *Storage) CreateCourse(ctx context.Context, c models.Course) (*models.Course, error) {
	const op = "storage.CreateCourse"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO courses (title, description, category, thumbnail_public_id, thumbnail_secure_url,
				created_by, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + courseColumns("lectures")
	created, err := scanCourse(s.DB.QueryRowContext(ctx, query,
		c.Title, c.Description, c.Category, c.Thumbnail.PublicID, c.Thumbnail.SecureURL,
		c.CreatedBy, c.Status))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return created, nil
}

// GetCourse возвращает активный курс вместе с лекциями.
func (s *Storage) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	const op = "storage.GetCourse"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + courseColumns("lectures") + ` FROM courses WHERE id = $1 AND is_active`
	c, err := scanCourse(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return c, nil
}

// ListApprovedCourses возвращает активные одобренные курсы без лекций.
func (s *Storage) ListApprovedCourses(ctx context.Context) ([]models.Course, error) {
	const op = "storage.ListApprovedCourses"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + courseColumns("NULL::jsonb") + `
			  FROM courses
			  WHERE is_active AND status = 'Approved'
			  ORDER BY created_at DESC`
	return s.queryCourses(ctx, op, query)
}

// ListCoursesByOwner возвращает активные курсы автора в любом статусе, без лекций.
func (s *Storage) ListCoursesByOwner(ctx context.Context, ownerID string) ([]models.Course, error) {
	const op = "storage.ListCoursesByOwner"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + courseColumns("NULL::jsonb") + `
			  FROM courses
			  WHERE is_active AND created_by = $1
			  ORDER BY created_at DESC`
	return s.queryCourses(ctx, op, query, ownerID)
}

// UpdateCourse обновляет редактируемые поля курса.
func (s *Storage) UpdateCourse(ctx context.Context, c models.Course) error {
	const op = "storage.UpdateCourse"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE courses
			  SET title = $1, description = $2, category = $3,
				  thumbnail_public_id = $4, thumbnail_secure_url = $5, updated_at = NOW()
			  WHERE id = $6 AND is_active`
	return execOne(ctx, s.DB, op, query, c.Title, c.Description, c.Category,
		c.Thumbnail.PublicID, c.Thumbnail.SecureURL, c.ID)
}

// SetCourseStatus меняет статус модерации курса.
func (s *Storage) SetCourseStatus(ctx context.Context, id string, status models.ApprovalStatus) error {
	const op = "storage.SetCourseStatus"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE courses SET status = $1, updated_at = NOW() WHERE id = $2 AND is_active`
	return execOne(ctx, s.DB, op, query, status, id)
}

// DeactivateCourse мягко удаляет курс.
func (s *Storage) DeactivateCourse(ctx context.Context, id string) error {
	const op = "storage.DeactivateCourse"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE courses SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active`
	return execOne(ctx, s.DB, op, query, id)
}

// UpdateLectures читает список лекций под блокировкой строки, применяет к нему mutate
// и записывает результат. Параллельные изменения лекций одного курса выполняются по очереди.
func (s *Storage) UpdateLectures(ctx context.Context, courseID string, mutate func([]models.Lecture) ([]models.Lecture, error)) error {
	const op = "storage.UpdateLectures"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var raw []byte
		err := tx.QueryRowContext(ctx,
			`SELECT lectures FROM courses WHERE id = $1 AND is_active FOR UPDATE`, courseID).Scan(&raw)
		if err != nil {
			return mapErr(err)
		}
		var lectures []models.Lecture
		if err := json.Unmarshal(raw, &lectures); err != nil {
			return fmt.Errorf("decode lectures: %w", err)
		}

		updated, err := mutate(lectures)
		if err != nil {
			return err
		}
		if updated == nil {
			updated = []models.Lecture{}
		}
		encoded, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("encode lectures: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE courses SET lectures = $1, updated_at = NOW() WHERE id = $2`, string(encoded), courseID)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
