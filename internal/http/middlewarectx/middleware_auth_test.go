package middlewarectx_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/course-access-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*models.User, bool, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.Bool(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handlerCalled := false

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		username := r.Context().Value(middlewarectx.User)
		role := r.Context().Value(middlewarectx.Role)
		userUID := r.Context().Value(middlewarectx.UserUID)
		assert.Equal(t, "testuser", username)
		assert.Equal(t, models.RoleStudent, role)
		assert.Equal(t, "uid-1", userUID)
		w.WriteHeader(http.StatusOK)
	})

	middleware := middlewarectx.JWTMiddleware(authMock, logger)(nextHandler)

	validUser := &models.User{Username: "testuser", Role: models.RoleStudent, UID: "uid-1"}

	tests := []struct {
		name           string
		authHeader     string
		mockUser       *models.User
		mockValid      bool
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "token validation error",
			authHeader:     "Bearer token",
			mockUser:       nil,
			mockValid:      false,
			mockErr:        errors.New("token expired"),
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer validtoken",
			mockUser:       validUser,
			mockValid:      true,
			mockErr:        nil,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false
			authMock.ExpectedCalls = nil
			authMock.Calls = nil
			if tt.mockUser != nil || tt.mockErr != nil {
				authMock.On("ValidateToken", mock.Anything, strings.TrimPrefix(tt.authHeader, "Bearer ")).
					Return(tt.mockUser, tt.mockValid, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rec := httptest.NewRecorder()

			middleware.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			authMock.AssertExpectations(t)
		})
	}
}

func TestJWTMiddleware_RequestScopedLogAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{}))

	mw := middlewarectx.JWTMiddleware(new(AuthServiceMock), logger)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	send := func(reqID string) {
		req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
		req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, reqID))
		mw.ServeHTTP(httptest.NewRecorder(), req)
	}

	// Оба запроса без заголовка Authorization, чтобы сработал лог ошибки.
	send("req-1")
	buf.Reset()
	send("req-2")

	line := buf.String()
	assert.Equal(t, 1, strings.Count(line, "op=auth.Jwtmiddleware"),
		"log attributes must not accumulate on the shared logger")
	assert.Contains(t, line, "request_id=req-2")
	assert.NotContains(t, line, "request_id=req-1")
}

func TestAdminOnlyMiddleware(t *testing.T) {
	logger := newNoopLogger()
	handlerCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})
	middleware := middlewarectx.AdminOnlyMiddleware(logger)(nextHandler)

	tests := []struct {
		name           string
		role           any
		wantStatusCode int
		wantCalled     bool
	}{
		{name: "admin allowed", role: models.RoleAdmin, wantStatusCode: http.StatusOK, wantCalled: true},
		{name: "student forbidden", role: models.RoleStudent, wantStatusCode: http.StatusForbidden, wantCalled: false},
		{name: "role missing", role: nil, wantStatusCode: http.StatusForbidden, wantCalled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false
			req := httptest.NewRequest(http.MethodPost, "/courses", nil)
			if tt.role != nil {
				ctx := context.WithValue(req.Context(), middlewarectx.Role, tt.role)
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()

			middleware.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}
