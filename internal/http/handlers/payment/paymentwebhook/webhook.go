// Package paymentwebhook реализует приём событий платёжного шлюза.
//
// Шлюз подтверждает подлинность запроса токеном в заголовке
// asaas-access-token. События сверяются с локальными платежами
// сервисом платежей, повторные доставки дедуплицируются по ID события.
package paymentwebhook

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-access-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-access-platform/internal/metrics"
	"github.com/magabrotheeeer/course-access-platform/internal/paymentprovider"
)

// Service описывает интерфейс обработки события вебхука.
type Service interface {
	ProcessWebhookEvent(ctx context.Context, payload *paymentprovider.WebhookPayload) error
}

// Handler обрабатывает запросы вебхуков платёжного шлюза.
type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string // Токен для проверки подлинности запроса
}

// New создает новый Handler с переданным логгером, сервисом и секретом.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// ServeHTTP godoc
// @Summary Вебхук платёжного шлюза
// @Description Принимает события Asaas и сверяет их с локальными платежами. Шлюз ретраит доставку при любом не-2xx ответе, поэтому ошибки обработки возвращают 500, а неизвестные события — 200 без побочных эффектов.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param asaas-access-token header string true "Токен вебхука"
// @Param request body paymentprovider.WebhookPayload true "Событие шлюза"
// @Success 200 {object} map[string]bool "Событие принято"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверный токен"
// @Failure 500 {object} response.ErrorResponse "Ошибка обработки события"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(slog.String("op", op))

	token := r.Header.Get("asaas-access-token")
	if token == "" || !hmac.Equal([]byte(token), []byte(h.webhookSecret)) {
		log.Error("invalid or missing webhook token")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	defer func() {
		_ = r.Body.Close()
	}()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var payload paymentprovider.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.service.ProcessWebhookEvent(r.Context(), &payload); err != nil {
		metrics.WebhookEvents.WithLabelValues(payload.Event, "error").Inc()
		log.Error("failed to process webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	metrics.WebhookEvents.WithLabelValues(payload.Event, "ok").Inc()
	log.Info("webhook processed successfully",
		slog.String("event", payload.Event),
		slog.String("payment_id", payload.Payment.ID))
	render.JSON(w, r, map[string]bool{"received": true})
}
