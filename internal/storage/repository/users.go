package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, username, password_hash, role, status, access_expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role, user.Status,
		user.AccessExpiresAt).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по имени.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, status, access_expires_at, created_at
			  FROM users WHERE username = $1`
	row := s.DB.QueryRowContext(ctx, query, username)

	var user models.User
	if err := row.Scan(&user.UID, &user.Email, &user.Username, &user.PasswordHash,
		&user.Role, &user.Status, &user.AccessExpiresAt, &user.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// GetUserByUID возвращает пользователя по его уникальному идентификатору.
func (s *Storage) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, status, access_expires_at, created_at
			  FROM users WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var user models.User
	if err := row.Scan(&user.UID, &user.Email, &user.Username, &user.PasswordHash,
		&user.Role, &user.Status, &user.AccessExpiresAt, &user.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// GetCourseAccessKind возвращает вид записи доступа пользователя к курсу:
// allowed, blocked или пустую строку, если записи нет.
func (s *Storage) GetCourseAccessKind(ctx context.Context, userUID, courseID string) (string, error) {
	const op = "storage.GetCourseAccessKind"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT kind FROM user_course_access
			  WHERE user_uid = $1 AND course_id = $2`
	var kind string
	err := s.DB.QueryRowContext(ctx, query, userUID, courseID).Scan(&kind)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return kind, nil
}

// SetCourseAccessKind создаёт или заменяет запись доступа пользователя к курсу.
func (s *Storage) SetCourseAccessKind(ctx context.Context, userUID, courseID, kind string) error {
	const op = "storage.SetCourseAccessKind"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_course_access (user_uid, course_id, kind)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (user_uid, course_id) DO UPDATE SET kind = EXCLUDED.kind`
	if _, err := s.DB.ExecContext(ctx, query, userUID, courseID, kind); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveCourseAccessKind удаляет запись доступа пользователя к курсу
// и возвращает количество удалённых строк.
func (s *Storage) RemoveCourseAccessKind(ctx context.Context, userUID, courseID string) (int, error) {
	const op = "storage.RemoveCourseAccessKind"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM user_course_access WHERE user_uid = $1 AND course_id = $2`
	result, err := s.DB.ExecContext(ctx, query, userUID, courseID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
