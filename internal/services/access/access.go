// Package access реализует проверку доступа пользователя к курсу.
//
// Решение принимается упорядоченной цепочкой правил, первое сработавшее
// правило выигрывает. Порядок правил фиксирован и является частью контракта:
// блокировка курса проверяется до бесплатности курса, но после роли admin,
// а общий грант пробного окна — после блокировки.
package access

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/course-access-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

// Repository определяет методы чтения данных, необходимых для решения о доступе.
type Repository interface {
	// ReadCourse возвращает курс по ID.
	ReadCourse(ctx context.Context, id string) (*models.Course, error)
	// GetUserByUID возвращает пользователя по его идентификатору.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
	// GetCourseAccessKind возвращает allowed, blocked или пустую строку.
	GetCourseAccessKind(ctx context.Context, userUID, courseID string) (string, error)
	// FindCurrentSubscription возвращает последнюю подписку со статусом trial или active.
	FindCurrentSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
}

// Decider принимает решения о доступе к курсам. Только чтение, без побочных
// эффектов кроме диагностического логирования.
type Decider struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// NewDecider создает новый экземпляр Decider.
func NewDecider(repo Repository, log *slog.Logger) *Decider {
	return &Decider{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

func deny(message string) models.AccessDecision {
	return models.AccessDecision{
		CanAccess: false,
		Reason:    models.AccessReasonNone,
		Message:   message,
	}
}

// Decide возвращает решение о доступе пользователя userUID к курсу courseID.
//
// Ошибки чтения данных не отличаются от отсутствия записи: обе ситуации
// приводят к отказу с причиной no_access. Транспортные ошибки логируются
// на уровне Error, отсутствие записи — на Debug.
func (d *Decider) Decide(ctx context.Context, userUID, courseID string) models.AccessDecision {
	const op = "access.Decide"
	log := d.log.With(
		slog.String("op", op),
		slog.String("user_uid", userUID),
		slog.String("course_id", courseID),
	)

	course, err := d.repo.ReadCourse(ctx, courseID)
	if err != nil {
		d.logFetchMiss(log, "course", err)
		return deny("course not found")
	}

	user, err := d.repo.GetUserByUID(ctx, userUID)
	if err != nil {
		d.logFetchMiss(log, "user", err)
		return deny("user not found")
	}

	if user.Role == models.RoleAdmin {
		return models.AccessDecision{
			CanAccess: true,
			Reason:    models.AccessReasonAdmin,
			Course:    course,
		}
	}

	if user.Status != models.StatusActive {
		return deny("account is not active")
	}

	now := d.now()
	hasValidAccessPeriod := user.AccessExpiresAt != nil && !user.AccessExpiresAt.Before(now)

	accessKind, err := d.repo.GetCourseAccessKind(ctx, userUID, courseID)
	if err != nil {
		// Ошибка чтения списка доступа приравнивается к отсутствию записи.
		log.Error("failed to read course access list", sl.Err(err))
		accessKind = ""
	}

	if accessKind == models.CourseAccessBlocked {
		return deny("course is blocked for this user")
	}

	if course.IsFree {
		return models.AccessDecision{
			CanAccess: true,
			Reason:    models.AccessReasonFree,
			Course:    course,
		}
	}

	if hasValidAccessPeriod {
		return models.AccessDecision{
			CanAccess: true,
			Reason:    models.AccessReasonTrial,
			Course:    course,
		}
	}

	if accessKind == models.CourseAccessAllowed {
		return models.AccessDecision{
			CanAccess: true,
			Reason:    models.AccessReasonPremium,
			Course:    course,
		}
	}

	sub, err := d.repo.FindCurrentSubscription(ctx, userUID)
	if err != nil {
		d.logFetchMiss(log, "subscription", err)
		return deny("requires premium subscription")
	}

	switch sub.Status {
	case models.SubscriptionStatusTrial:
		if sub.TrialEndsAt != nil && !now.After(*sub.TrialEndsAt) {
			return models.AccessDecision{
				CanAccess:    true,
				Reason:       models.AccessReasonTrial,
				Course:       course,
				Subscription: sub,
			}
		}
	case models.SubscriptionStatusActive:
		if sub.CurrentPeriodEnd != nil && !now.After(*sub.CurrentPeriodEnd) {
			return models.AccessDecision{
				CanAccess:    true,
				Reason:       models.AccessReasonPremium,
				Course:       course,
				Subscription: sub,
			}
		}
	}

	return deny("requires premium subscription")
}

func (d *Decider) logFetchMiss(log *slog.Logger, entity string, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug(entity + " not found")
		return
	}
	log.Error("failed to fetch "+entity, sl.Err(err))
}
