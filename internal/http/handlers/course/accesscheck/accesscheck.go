// Package accesscheck реализует HTTP-обработчик проверки доступа пользователя
// к курсу. Решение принимает цепочка правил сервиса доступа.
package accesscheck

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-access-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-access-platform/internal/http/response"
	"github.com/magabrotheeeer/course-access-platform/internal/metrics"
	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

// Service описывает интерфейс принятия решения о доступе.
type Service interface {
	Decide(ctx context.Context, userUID, courseID string) models.AccessDecision
}

// Handler обрабатывает запросы на проверку доступа к курсу.
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
// @Summary Проверить доступ к курсу
// @Description Возвращает решение о доступе пользователя к курсу и его причину. Отказ в доступе — не ошибка: ответ всегда 200 с решением в теле.
// @Tags Courses
// @Produce  json
// @Param id path string true "Идентификатор курса"
// @Success 200 {object} map[string]any "Решение о доступе"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /courses/{id}/access [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.accesscheck"

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

	courseID := chi.URLParam(r, "id")
	decision := h.service.Decide(r.Context(), userUID, courseID)
	metrics.AccessDecisions.WithLabelValues(decision.Reason).Inc()

	log.Info("access decision",
		slog.String("course_id", courseID),
		slog.Bool("can_access", decision.CanAccess),
		slog.String("reason", decision.Reason))
	render.JSON(w, r, response.StatusOKWithData(decision))
}
