// Package readingevent реализует HTTP-обработчик фиксации события чтения.
package readingevent

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-access-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-access-platform/internal/http/response"
	"github.com/magabrotheeeer/course-access-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-access-platform/internal/models"
	"github.com/magabrotheeeer/course-access-platform/internal/services/gamification"
)

// Service описывает интерфейс бизнес-логики учёта чтения.
type Service interface {
	RecordReading(ctx context.Context, userUID string, req models.DummyReadingEvent) (*models.UserStats, error)
}

// Handler обрабатывает запросы на фиксацию события чтения.
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
// @Summary Зафиксировать событие чтения
// @Description Принимает событие чтения страницы и начисляет очки, серии и достижения.
// @Tags Reading
// @Accept  json
// @Produce  json
// @Param request body models.DummyReadingEvent true "Событие чтения"
// @Success 200 {object} map[string]any "Событие учтено"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reading/events [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reading.event"

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

	var req models.DummyReadingEvent
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

	stats, err := h.service.RecordReading(r.Context(), userUID, req)
	if errors.Is(err, gamification.ErrAccessDenied) {
		log.Info("reading event rejected, no access", slog.String("course_id", req.CourseID))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("access to course denied"))
		return
	}
	if err != nil {
		log.Error("failed to record reading event", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not record reading event"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"stats": stats,
	}))
}
