package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

// CreateSubscription вставляет новую запись подписки и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, status, trial_ends_at,
			      current_period_start, current_period_end, gateway_subscription_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.Status, sub.TrialEndsAt,
		sub.CurrentPeriodStart, sub.CurrentPeriodEnd, sub.GatewaySubscriptionID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// FindCurrentSubscription возвращает текущую подписку пользователя:
// последнюю созданную запись со статусом trial или active.
func (s *Storage) FindCurrentSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.FindCurrentSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, status, trial_ends_at, current_period_start,
			      current_period_end, gateway_subscription_id, created_at
			  FROM subscriptions
			  WHERE user_uid = $1 AND status IN ($2, $3)
			  ORDER BY created_at DESC
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, userUID,
		models.SubscriptionStatusTrial, models.SubscriptionStatusActive)

	var result models.Subscription
	if err := row.Scan(&result.ID, &result.UserUID, &result.Status, &result.TrialEndsAt,
		&result.CurrentPeriodStart, &result.CurrentPeriodEnd,
		&result.GatewaySubscriptionID, &result.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// FindLatestSubscription возвращает последнюю созданную подписку пользователя
// независимо от статуса.
func (s *Storage) FindLatestSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.FindLatestSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, status, trial_ends_at, current_period_start,
			      current_period_end, gateway_subscription_id, created_at
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var result models.Subscription
	if err := row.Scan(&result.ID, &result.UserUID, &result.Status, &result.TrialEndsAt,
		&result.CurrentPeriodStart, &result.CurrentPeriodEnd,
		&result.GatewaySubscriptionID, &result.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateSubscriptionStatus обновляет статус подписки по её ID
// и возвращает количество изменённых строк.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, id int, status string) (int, error) {
	const op = "storage.UpdateSubscriptionStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions SET status = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateSubscriptionPeriod переводит подписку в заданный статус и задаёт
// границы оплаченного периода. Возвращает количество изменённых строк.
func (s *Storage) UpdateSubscriptionPeriod(ctx context.Context, id int, status string, periodStart, periodEnd time.Time) (int, error) {
	const op = "storage.UpdateSubscriptionPeriod"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = $1, current_period_start = $2, current_period_end = $3
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, status, periodStart, periodEnd, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
