// Package gamification содержит логику начисления очков за чтение,
// подсчёта серий дней и выдачи достижений.
package gamification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/course-access-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

// ErrAccessDenied возвращается, когда событие чтения приходит по курсу,
// к которому у пользователя нет доступа.
var ErrAccessDenied = errors.New("access to course denied")

// Repository определяет методы хранилища для прогресса чтения.
type Repository interface {
	CreateReadingEvent(ctx context.Context, event models.ReadingEvent) (int, error)
	GetUserStats(ctx context.Context, userUID string) (*models.UserStats, error)
	UpsertUserStats(ctx context.Context, stats models.UserStats) error
	ListAchievements(ctx context.Context) ([]*models.Achievement, error)
	ListUserAchievements(ctx context.Context, userUID string) ([]*models.UserAchievement, error)
	GrantAchievement(ctx context.Context, userUID, code string) (bool, error)
}

// AccessDecider проверяет право пользователя на доступ к курсу.
type AccessDecider interface {
	Decide(ctx context.Context, userUID, courseID string) models.AccessDecision
}

// Service реализует учёт прогресса чтения.
type Service struct {
	repo          Repository
	decider       AccessDecider
	pointsPerPage int
	log           *slog.Logger
	now           func() time.Time
}

// New создает новый экземпляр Service.
func New(repo Repository, decider AccessDecider, pointsPerPage int, log *slog.Logger) *Service {
	if pointsPerPage <= 0 {
		pointsPerPage = 1
	}
	return &Service{
		repo:          repo,
		decider:       decider,
		pointsPerPage: pointsPerPage,
		log:           log,
		now:           time.Now,
	}
}

// RecordReading фиксирует событие чтения: проверяет доступ к курсу,
// начисляет очки, пересчитывает серию дней и выдаёт пороговые достижения.
// Возвращает обновлённую статистику.
func (s *Service) RecordReading(ctx context.Context, userUID string, req models.DummyReadingEvent) (*models.UserStats, error) {
	decision := s.decider.Decide(ctx, userUID, req.CourseID)
	if !decision.CanAccess {
		return nil, ErrAccessDenied
	}

	now := s.now().UTC()
	event := models.ReadingEvent{
		UserUID:    userUID,
		CourseID:   req.CourseID,
		PagesRead:  req.PagesRead,
		OccurredAt: now,
	}
	if _, err := s.repo.CreateReadingEvent(ctx, event); err != nil {
		return nil, err
	}

	stats, err := s.repo.GetUserStats(ctx, userUID)
	if err != nil {
		return nil, err
	}

	stats.Points += req.PagesRead * s.pointsPerPage
	s.advanceStreak(stats, now)
	if err := s.repo.UpsertUserStats(ctx, *stats); err != nil {
		return nil, err
	}

	s.grantThresholdAchievements(ctx, userUID, stats)
	return stats, nil
}

// advanceStreak пересчитывает серию дней чтения подряд. Чтение в тот же
// день серию не меняет, чтение на следующий день продлевает её, разрыв
// больше суток начинает серию заново.
func (s *Service) advanceStreak(stats *models.UserStats, now time.Time) {
	today := now.Truncate(24 * time.Hour)
	switch {
	case stats.LastReadDate == nil:
		stats.CurrentStreak = 1
	case stats.LastReadDate.Truncate(24 * time.Hour).Equal(today):
		// уже читал сегодня
	case stats.LastReadDate.Truncate(24 * time.Hour).Equal(today.AddDate(0, 0, -1)):
		stats.CurrentStreak++
	default:
		stats.CurrentStreak = 1
	}
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastReadDate = &today
}

// grantThresholdAchievements выдаёт достижения, пороги которых достигнуты.
// Ошибки выдачи логируются, но не прерывают обработку события чтения.
func (s *Service) grantThresholdAchievements(ctx context.Context, userUID string, stats *models.UserStats) {
	achievements, err := s.repo.ListAchievements(ctx)
	if err != nil {
		s.log.Error("failed to list achievements", sl.Err(err))
		return
	}
	for _, a := range achievements {
		var reached bool
		switch a.Kind {
		case models.AchievementKindPoints:
			reached = stats.Points >= a.Threshold
		case models.AchievementKindStreak:
			reached = stats.CurrentStreak >= a.Threshold
		}
		if !reached {
			continue
		}
		granted, err := s.repo.GrantAchievement(ctx, userUID, a.Code)
		if err != nil {
			s.log.Error("failed to grant achievement", slog.String("code", a.Code), sl.Err(err))
			continue
		}
		if granted {
			s.log.Info("achievement granted",
				slog.String("user_uid", userUID), slog.String("code", a.Code))
		}
	}
}

// Progress возвращает статистику чтения и полученные достижения пользователя.
func (s *Service) Progress(ctx context.Context, userUID string) (*models.Progress, error) {
	stats, err := s.repo.GetUserStats(ctx, userUID)
	if err != nil {
		return nil, err
	}
	earned, err := s.repo.ListUserAchievements(ctx, userUID)
	if err != nil {
		return nil, err
	}
	result := &models.Progress{Stats: *stats}
	for _, item := range earned {
		result.Achievements = append(result.Achievements, *item)
	}
	return result, nil
}
