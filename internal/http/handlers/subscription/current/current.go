// Package current реализует HTTP-обработчик получения текущей подписки пользователя.
package current

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

// Service описывает интерфейс бизнес-логики чтения подписки.
type Service interface {
	Current(ctx context.Context, userUID string) (*models.Subscription, error)
	Status(ctx context.Context, userUID string) (string, error)
}

// Handler обрабатывает запросы на получение текущей подписки.
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
// @Summary Текущая подписка пользователя
// @Description Возвращает действующую подписку пользователя. Отсутствие подписки — не ошибка: возвращается null. В поле status дополнительно отдаётся статус последней подписки, даже если она уже не действует (past_due, canceled, expired).
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} map[string]any "Подписка и её статус"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/current [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.current"

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

	sub, err := h.service.Current(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read current subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read subscription"))
		return
	}

	status, err := h.service.Status(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read subscription status", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read subscription"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription": sub,
		"status":       status,
	}))
}
