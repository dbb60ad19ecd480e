// Package accessrule реализует HTTP-обработчики управления allow/block-списками
// доступа пользователей к курсам.
package accessrule

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
)

// Request — входные данные для записи списка доступа.
type Request struct {
	UserUID string `json:"user_uid" validate:"required,uuid"`
	Kind    string `json:"kind" validate:"required,oneof=allowed blocked"`
}

// Service описывает интерфейс бизнес-логики списков доступа.
type Service interface {
	SetAccessRule(ctx context.Context, userUID, courseID, kind string) error
	RemoveAccessRule(ctx context.Context, userUID, courseID string) (int, error)
}

// Handler обрабатывает запросы на управление списками доступа.
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
// @Summary Установить правило доступа
// @Description Создает или заменяет запись allow/block-списка для пользователя и курса. Доступно только администратору.
// @Tags Courses
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор курса"
// @Param request body Request true "Правило доступа"
// @Success 200 {object} map[string]any "Правило установлено"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /courses/{id}/access-rules [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.accessrule.set"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	courseID := chi.URLParam(r, "id")

	var req Request
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

	if err := h.service.SetAccessRule(r.Context(), req.UserUID, courseID, req.Kind); err != nil {
		log.Error("failed to set access rule", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not set access rule"))
		return
	}

	log.Info("access rule set",
		slog.String("user_uid", req.UserUID),
		slog.String("course_id", courseID),
		slog.String("kind", req.Kind))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_uid":  req.UserUID,
		"course_id": courseID,
		"kind":      req.Kind,
	}))
}

// Remove godoc
// @Summary Удалить правило доступа
// @Tags Courses
// @Produce  json
// @Param id path string true "Идентификатор курса"
// @Param userUID path string true "UID пользователя"
// @Success 200 {object} map[string]any "Правило удалено"
// @Failure 404 {object} response.ErrorResponse "Правило не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /courses/{id}/access-rules/{userUID} [delete]
// @Security BearerAuth
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.accessrule.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	courseID := chi.URLParam(r, "id")
	userUID := chi.URLParam(r, "userUID")

	count, err := h.service.RemoveAccessRule(r.Context(), userUID, courseID)
	if err != nil {
		log.Error("failed to remove access rule", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove access rule"))
		return
	}
	if count == 0 {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("access rule not found"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed": count,
	}))
}
