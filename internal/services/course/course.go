// Package course содержит бизнес-логику каталога курсов и кеширование
// его горячих данных: карточек курсов и списка категорий.
package course

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/course-access-platform/internal/config"
	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

// Repository определяет методы для работы с каталогом курсов в хранилище.
type Repository interface {
	// CreateCourse добавляет новый курс и возвращает его ID.
	CreateCourse(ctx context.Context, course models.Course) (string, error)
	// ReadCourse возвращает курс по ID.
	ReadCourse(ctx context.Context, id string) (*models.Course, error)
	// UpdateCourse обновляет данные курса по ID.
	UpdateCourse(ctx context.Context, course models.Course, id string) (int, error)
	// RemoveCourse удаляет курс по ID и возвращает количество удалённых записей.
	RemoveCourse(ctx context.Context, id string) (int, error)
	// ListCourses возвращает список курсов с пагинацией.
	ListCourses(ctx context.Context, limit, offset int) ([]*models.Course, error)
	// ListCategories возвращает категории каталога.
	ListCategories(ctx context.Context) ([]string, error)
	// SetCourseAccessKind создаёт или заменяет запись списка доступа.
	SetCourseAccessKind(ctx context.Context, userUID, courseID, kind string) error
	// RemoveCourseAccessKind удаляет запись списка доступа.
	RemoveCourseAccessKind(ctx context.Context, userUID, courseID string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

const categoriesCacheKey = "categories"

// CourseService реализует бизнес-логику каталога, включая кеширование.
// TTL кеша задаются конфигурацией, инвалидация выполняется при мутациях.
type CourseService struct {
	repo  Repository
	cache Cache
	ttl   config.CacheTTL
	log   *slog.Logger
}

// NewCourseService создает новый экземпляр CourseService.
func NewCourseService(repo Repository, cache Cache, ttl config.CacheTTL, log *slog.Logger) *CourseService {
	return &CourseService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// Create создает новый курс и инвалидирует кеш категорий.
func (s *CourseService) Create(ctx context.Context, req models.DummyCourse) (string, error) {
	course := models.Course{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		IsFree:       req.IsFree,
		Price:        req.Price,
		PDFObjectKey: req.PDFObjectKey,
	}

	id, err := s.repo.CreateCourse(ctx, course)
	if err != nil {
		return "", err
	}
	s.log.Info("created new course", slog.String("id", id))

	if err := s.cache.Invalidate(categoriesCacheKey); err != nil {
		s.log.Warn("failed to invalidate categories cache", slog.Any("err", err))
	}
	return id, nil
}

// Read возвращает курс по ID, используя кеш или репозиторий.
func (s *CourseService) Read(ctx context.Context, id string) (*models.Course, error) {
	var result *models.Course
	cacheKey := fmt.Sprintf("course:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, s.ttl.CourseTTL); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey),
				slog.Any("err", err))
		}
	}
	return result, nil
}

// Update обновляет курс и инвалидирует связанные ключи кеша.
func (s *CourseService) Update(ctx context.Context, req models.DummyCourse, id string) (int, error) {
	course := models.Course{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		IsFree:       req.IsFree,
		Price:        req.Price,
		PDFObjectKey: req.PDFObjectKey,
	}
	res, err := s.repo.UpdateCourse(ctx, course, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated course in storage", slog.String("id", id))

	s.invalidateCourse(id)
	return res, nil
}

// Remove удаляет курс по ID и инвалидирует связанные ключи кеша.
func (s *CourseService) Remove(ctx context.Context, id string) (int, error) {
	count, err := s.repo.RemoveCourse(ctx, id)
	if err != nil {
		return 0, err
	}

	s.invalidateCourse(id)
	return count, nil
}

// List возвращает список курсов с пагинацией.
func (s *CourseService) List(ctx context.Context, limit, offset int) ([]*models.Course, error) {
	return s.repo.ListCourses(ctx, limit, offset)
}

// ListCategories возвращает категории каталога, используя кеш.
func (s *CourseService) ListCategories(ctx context.Context) ([]string, error) {
	var result []string
	found, err := s.cache.Get(categoriesCacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(categoriesCacheKey, result, s.ttl.CategoriesTTL); err != nil {
		s.log.Warn("failed to cache categories", slog.Any("err", err))
	}
	return result, nil
}

// SetAccessRule создаёт или заменяет запись allow/block-списка пользователя.
func (s *CourseService) SetAccessRule(ctx context.Context, userUID, courseID, kind string) error {
	if err := s.repo.SetCourseAccessKind(ctx, userUID, courseID, kind); err != nil {
		return err
	}
	s.invalidateAccess(userUID, courseID)
	return nil
}

// RemoveAccessRule удаляет запись allow/block-списка пользователя.
func (s *CourseService) RemoveAccessRule(ctx context.Context, userUID, courseID string) (int, error) {
	count, err := s.repo.RemoveCourseAccessKind(ctx, userUID, courseID)
	if err != nil {
		return 0, err
	}
	s.invalidateAccess(userUID, courseID)
	return count, nil
}

func (s *CourseService) invalidateCourse(id string) {
	cacheKey := fmt.Sprintf("course:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate course cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if err := s.cache.Invalidate(categoriesCacheKey); err != nil {
		s.log.Warn("failed to invalidate categories cache", slog.Any("err", err))
	}
}

func (s *CourseService) invalidateAccess(userUID, courseID string) {
	cacheKey := fmt.Sprintf("access:%s:%s", userUID, courseID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate access cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}
