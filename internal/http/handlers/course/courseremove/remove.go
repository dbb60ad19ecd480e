// Package courseremove реализует HTTP-обработчик удаления курса администратором.
package courseremove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-access-platform/internal/http/response"
	"github.com/magabrotheeeer/course-access-platform/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики удаления курса.
type Service interface {
	Remove(ctx context.Context, id string) (int, error)
}

// Handler обрабатывает запросы на удаление курса.
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
// @Summary Удалить курс
// @Tags Courses
// @Produce  json
// @Param id path string true "Идентификатор курса"
// @Success 200 {object} map[string]any "Курс удален"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /courses/{id} [delete]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	count, err := h.service.Remove(r.Context(), id)
	if err != nil {
		log.Error("failed to remove course", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove course"))
		return
	}
	if count == 0 {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("course not found"))
		return
	}

	log.Info("course removed", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed": count,
	}))
}
