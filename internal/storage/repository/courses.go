package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

// CreateCourse вставляет новый курс и возвращает его ID.
func (s *Storage) CreateCourse(ctx context.Context, course models.Course) (string, error) {
	const op = "storage.CreateCourse"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO courses (title, description, category, is_free, price, pdf_object_key)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		course.Title, course.Description, course.Category, course.IsFree,
		course.Price, course.PDFObjectKey).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadCourse возвращает данные курса по его ID.
func (s *Storage) ReadCourse(ctx context.Context, id string) (*models.Course, error) {
	const op = "storage.ReadCourse"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, category, is_free, price, pdf_object_key,
			      created_at, updated_at
			  FROM courses WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Course
	if err := row.Scan(&result.ID, &result.Title, &result.Description, &result.Category,
		&result.IsFree, &result.Price, &result.PDFObjectKey,
		&result.CreatedAt, &result.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateCourse обновляет данные курса по его ID и возвращает количество изменённых строк.
func (s *Storage) UpdateCourse(ctx context.Context, course models.Course, id string) (int, error) {
	const op = "storage.UpdateCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE courses
			  SET title = $1, description = $2, category = $3, is_free = $4,
			      price = $5, pdf_object_key = $6, updated_at = now()
			  WHERE id = $7`
	result, err := s.DB.ExecContext(ctx, query,
		course.Title, course.Description, course.Category, course.IsFree,
		course.Price, course.PDFObjectKey, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveCourse удаляет курс по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveCourse(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM courses WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListCourses возвращает список курсов с пагинацией.
func (s *Storage) ListCourses(ctx context.Context, limit, offset int) ([]*models.Course, error) {
	const op = "storage.ListCourses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, category, is_free, price, pdf_object_key,
			      created_at, updated_at
			  FROM courses
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Course
	for rows.Next() {
		var item models.Course
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Category,
			&item.IsFree, &item.Price, &item.PDFObjectKey,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListCategories возвращает список категорий, встречающихся в каталоге.
func (s *Storage) ListCategories(ctx context.Context) ([]string, error) {
	const op = "storage.ListCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT DISTINCT category FROM courses ORDER BY category`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
