// Package courseread реализует HTTP-обработчик получения курса по ID.
package courseread

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-access-platform/internal/http/response"
	"github.com/magabrotheeeer/course-access-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения курса.
type Service interface {
	Read(ctx context.Context, id string) (*models.Course, error)
}

// Handler обрабатывает запросы на получение курса по идентификатору.
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
// @Summary Получить курс
// @Tags Courses
// @Produce  json
// @Param id path string true "Идентификатор курса"
// @Success 200 {object} map[string]any "Данные курса"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /courses/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	res, err := h.service.Read(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("course not found", slog.String("id", id))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("course not found"))
		return
	}
	if err != nil {
		log.Error("failed to read course", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read course"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"course": res,
	}))
}
