package models

import "time"

// Статусы подписки.
const (
	SubscriptionStatusTrial    = "trial"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusExpired  = "expired"
)

// Subscription представляет подписку пользователя на платформу.
// Текущей считается последняя созданная запись со статусом trial или active.
type Subscription struct {
	ID                    int        // Уникальный идентификатор записи
	UserUID               string     // Идентификатор пользователя
	Status                string     // Статус: trial, active, past_due, canceled, expired
	TrialEndsAt           *time.Time // Дата окончания пробного периода
	CurrentPeriodStart    *time.Time // Начало оплаченного периода
	CurrentPeriodEnd      *time.Time // Конец оплаченного периода
	GatewaySubscriptionID string     // Идентификатор подписки на стороне шлюза
	CreatedAt             time.Time  // Дата создания записи
}
