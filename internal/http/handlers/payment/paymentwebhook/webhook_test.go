package paymentwebhook_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/course-access-platform/internal/paymentprovider"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ProcessWebhookEvent(ctx context.Context, payload *paymentprovider.WebhookPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const webhookSecret = "test-secret"

const confirmedPayload = `{
	"id": "evt_1",
	"event": "PAYMENT_CONFIRMED",
	"payment": {"id": "pay_1", "status": "CONFIRMED", "value": 29.90}
}`

func TestWebhookHandler(t *testing.T) {
	tests := []struct {
		name           string
		token          string
		body           string
		mockErr        error
		mockCalled     bool
		wantStatusCode int
	}{
		{
			name:           "valid event processed",
			token:          webhookSecret,
			body:           confirmedPayload,
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing token",
			token:          "",
			body:           confirmedPayload,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "wrong token",
			token:          "forged",
			body:           confirmedPayload,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "malformed payload",
			token:          webhookSecret,
			body:           `{"id": `,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "processing error returns 500 for gateway retry",
			token:          webhookSecret,
			body:           confirmedPayload,
			mockErr:        errors.New("db down"),
			mockCalled:     true,
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			if tt.mockCalled {
				serviceMock.On("ProcessWebhookEvent", mock.Anything,
					mock.MatchedBy(func(p *paymentprovider.WebhookPayload) bool {
						return p.ID == "evt_1" && p.Payment.ID == "pay_1"
					})).Return(tt.mockErr).Once()
			}

			handler := paymentwebhook.New(newNoopLogger(), serviceMock, webhookSecret)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(tt.body))
			if tt.token != "" {
				req.Header.Set("asaas-access-token", tt.token)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			serviceMock.AssertExpectations(t)
		})
	}
}

type failingBody struct {
	closed bool
}

func (b *failingBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (b *failingBody) Close() error             { b.closed = true; return nil }

func TestWebhookHandler_BodyClosedOnReadError(t *testing.T) {
	handler := paymentwebhook.New(newNoopLogger(), new(ServiceMock), webhookSecret)

	body := &failingBody{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", nil)
	req.Body = body
	req.Header.Set("asaas-access-token", webhookSecret)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, body.closed, "request body must be closed even when reading fails")
}
