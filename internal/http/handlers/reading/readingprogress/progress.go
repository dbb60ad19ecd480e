// Package readingprogress реализует HTTP-обработчик получения прогресса чтения.
package readingprogress

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-access-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-access-platform/internal/http/response"
	"github.com/magabrotheeeer/course-access-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

// Service описывает интерфейс бизнес-логики прогресса чтения.
type Service interface {
	Progress(ctx context.Context, userUID string) (*models.Progress, error)
}

// Handler обрабатывает запросы на получение прогресса.
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
// @Summary Прогресс чтения
// @Description Возвращает очки, текущую серию и достижения пользователя.
// @Tags Reading
// @Produce  json
// @Success 200 {object} map[string]any "Прогресс пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reading/progress [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reading.progress"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	progress, err := h.service.Progress(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read progress", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read progress"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(progress))
}
