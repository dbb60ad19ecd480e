// Package courseupdate реализует HTTP-обработчик обновления курса администратором.
package courseupdate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-access-platform/internal/http/response"
	"github.com/magabrotheeeer/course-access-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

// Service описывает интерфейс бизнес-логики обновления курса.
type Service interface {
	Update(ctx context.Context, req models.DummyCourse, id string) (int, error)
}

// Handler обрабатывает запросы на обновление курса.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить курс
// @Description Обновляет данные курса каталога. Доступно только администратору.
// @Tags Courses
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор курса"
// @Param request body models.DummyCourse true "Новые данные курса"
// @Success 200 {object} map[string]any "Курс обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /courses/{id} [put]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req models.DummyCourse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	count, err := h.service.Update(r.Context(), req, id)
	if err != nil {
		log.Error("failed to update course", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update course"))
		return
	}
	if count == 0 {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("course not found"))
		return
	}

	log.Info("course updated", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"updated": count,
	}))
}
