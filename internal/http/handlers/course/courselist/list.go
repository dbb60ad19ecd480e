// Package courselist реализует HTTP-обработчик списка курсов каталога.
package courselist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-access-platform/internal/http/response"
	"github.com/magabrotheeeer/course-access-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.Course, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// Handler обрабатывает запросы на список курсов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Каталог курсов
// @Description Возвращает опубликованные курсы каталога с пагинацией.
// @Tags Courses
// @Produce  json
// @Param limit query int false "Размер страницы (максимум 100)"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список курсов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /courses [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, offset := parsePagination(r)
	res, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list courses", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list courses"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"courses": res,
		"limit":   limit,
		"offset":  offset,
	}))
}

// Categories godoc
// @Summary Категории каталога
// @Tags Courses
// @Produce  json
// @Success 200 {object} map[string]any "Список категорий"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /courses/categories [get]
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.categories"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.ListCategories(r.Context())
	if err != nil {
		log.Error("failed to list categories", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list categories"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"categories": res,
	}))
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
