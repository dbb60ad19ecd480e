package access

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/course-access-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

// Cache описывает методы для кэширования решений о доступе.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
}

// CachedDecider кеширует решения базового Decider на короткий срок.
// TTL выбирается небольшим, чтобы изменения allow/block-списков и подписок
// применялись быстро; мутации каталога дополнительно инвалидируют ключ.
type CachedDecider struct {
	next  *Decider
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewCachedDecider создает новый экземпляр CachedDecider.
func NewCachedDecider(next *Decider, cache Cache, ttl time.Duration, log *slog.Logger) *CachedDecider {
	return &CachedDecider{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// Decide возвращает решение из кеша или делегирует базовому Decider.
// Ошибки кеша не влияют на результат, решение в этом случае принимается заново.
func (d *CachedDecider) Decide(ctx context.Context, userUID, courseID string) models.AccessDecision {
	cacheKey := fmt.Sprintf("access:%s:%s", userUID, courseID)

	var cached models.AccessDecision
	found, err := d.cache.Get(cacheKey, &cached)
	if err != nil {
		d.log.Warn("failed to read access cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached
	}

	decision := d.next.Decide(ctx, userUID, courseID)
	if err := d.cache.Set(cacheKey, decision, d.ttl); err != nil {
		d.log.Warn("failed to cache access decision", slog.String("key", cacheKey), sl.Err(err))
	}
	return decision
}
