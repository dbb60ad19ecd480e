package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

// CreateReadingEvent вставляет событие чтения и возвращает его ID.
func (s *Storage) CreateReadingEvent(ctx context.Context, event models.ReadingEvent) (int, error) {
	const op = "storage.CreateReadingEvent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reading_events (user_uid, course_id, pages_read, occurred_at)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		event.UserUID, event.CourseID, event.PagesRead, event.OccurredAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserStats возвращает статистику чтения пользователя.
// Если записи ещё нет, возвращает нулевую статистику без ошибки.
func (s *Storage) GetUserStats(ctx context.Context, userUID string) (*models.UserStats, error) {
	const op = "storage.GetUserStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, points, current_streak, longest_streak, last_read_date
			  FROM user_stats WHERE user_uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var result models.UserStats
	err := row.Scan(&result.UserUID, &result.Points, &result.CurrentStreak,
		&result.LongestStreak, &result.LastReadDate)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.UserStats{UserUID: userUID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpsertUserStats создаёт или заменяет статистику чтения пользователя.
func (s *Storage) UpsertUserStats(ctx context.Context, stats models.UserStats) error {
	const op = "storage.UpsertUserStats"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_stats (user_uid, points, current_streak, longest_streak, last_read_date)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (user_uid) DO UPDATE
			  SET points = EXCLUDED.points,
			      current_streak = EXCLUDED.current_streak,
			      longest_streak = EXCLUDED.longest_streak,
			      last_read_date = EXCLUDED.last_read_date`
	if _, err := s.DB.ExecContext(ctx, query,
		stats.UserUID, stats.Points, stats.CurrentStreak, stats.LongestStreak,
		stats.LastReadDate); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListAchievements возвращает справочник достижений.
func (s *Storage) ListAchievements(ctx context.Context) ([]*models.Achievement, error) {
	const op = "storage.ListAchievements"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT code, title, kind, threshold FROM achievements ORDER BY threshold`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Achievement
	for rows.Next() {
		var item models.Achievement
		if err := rows.Scan(&item.Code, &item.Title, &item.Kind, &item.Threshold); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListUserAchievements возвращает достижения, полученные пользователем.
func (s *Storage) ListUserAchievements(ctx context.Context, userUID string) ([]*models.UserAchievement, error) {
	const op = "storage.ListUserAchievements"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, achievement_code, earned_at
			  FROM user_achievements
			  WHERE user_uid = $1
			  ORDER BY earned_at`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.UserAchievement
	for rows.Next() {
		var item models.UserAchievement
		if err := rows.Scan(&item.UserUID, &item.Code, &item.EarnedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GrantAchievement выдаёт достижение пользователю. Повторная выдача игнорируется.
func (s *Storage) GrantAchievement(ctx context.Context, userUID, code string) (bool, error) {
	const op = "storage.GrantAchievement"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_achievements (user_uid, achievement_code)
			  VALUES ($1, $2)
			  ON CONFLICT (user_uid, achievement_code) DO NOTHING`
	result, err := s.DB.ExecContext(ctx, query, userUID, code)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}
