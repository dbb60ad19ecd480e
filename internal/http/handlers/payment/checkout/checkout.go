// Package checkout реализует HTTP-обработчик создания платежа через платёжный шлюз.
package checkout

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
	"github.com/magabrotheeeer/course-access-platform/internal/metrics"
	"github.com/magabrotheeeer/course-access-platform/internal/models"
	paymentservice "github.com/magabrotheeeer/course-access-platform/internal/services/payment"
)

// Service описывает интерфейс бизнес-логики чекаута.
type Service interface {
	Checkout(ctx context.Context, userUID string, req models.DummyCheckout) (*paymentservice.CheckoutResult, error)
}

// Handler обрабатывает запросы на создание платежа.
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
// @Summary Создать платеж
// @Description Создает платеж через Asaas (PIX или Boleto) за курс или подписку и возвращает данные для оплаты.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyCheckout true "Данные чекаута"
// @Success 200 {object} map[string]any "Платеж создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или курс недоступен для покупки"
// @Failure 500 {object} response.ErrorResponse "Ошибка платёжного шлюза"
// @Router /payments/checkout [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.checkout"

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

	var req models.DummyCheckout
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

	res, err := h.service.Checkout(r.Context(), userUID, req)
	switch {
	case errors.Is(err, paymentservice.ErrCourseIsFree),
		errors.Is(err, paymentservice.ErrCourseNotPurchasable):
		log.Info("checkout rejected", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case err != nil:
		log.Error("failed to create checkout", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create payment"))
		return
	}

	metrics.CheckoutsCreated.WithLabelValues(req.BillingType).Inc()
	render.JSON(w, r, response.StatusOKWithData(res))
}
