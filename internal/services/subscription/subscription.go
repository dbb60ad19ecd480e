// Package subscription содержит бизнес-логику чтения подписок пользователя.
package subscription

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

// Repository определяет методы для работы с подписками в хранилище.
type Repository interface {
	// FindCurrentSubscription возвращает последнюю подписку со статусом trial или active.
	FindCurrentSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
	// FindLatestSubscription возвращает последнюю подписку независимо от статуса.
	FindLatestSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
}

// SubscriptionService реализует чтение текущей подписки и её статуса.
type SubscriptionService struct {
	repo Repository
	log  *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo Repository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo: repo,
		log:  log,
	}
}

// Current возвращает текущую подписку пользователя или nil, если её нет.
func (s *SubscriptionService) Current(ctx context.Context, userUID string) (*models.Subscription, error) {
	sub, err := s.repo.FindCurrentSubscription(ctx, userUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Status возвращает статус последней подписки пользователя.
// Если подписок нет, возвращает пустую строку без ошибки.
func (s *SubscriptionService) Status(ctx context.Context, userUID string) (string, error) {
	sub, err := s.repo.FindLatestSubscription(ctx, userUID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sub.Status, nil
}
