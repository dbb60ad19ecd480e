// Package courseplatform предоставляет маршруты для основного приложения.
package courseplatform

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/course/accesscheck"
	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/course/accessrule"
	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/course/coursecreate"
	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/course/courselist"
	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/course/courseread"
	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/course/courseremove"
	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/course/courseupdate"
	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/health"
	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/payment/checkout"
	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/reading/readingevent"
	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/reading/readingprogress"
	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/subscription/current"
	"github.com/magabrotheeeer/course-access-platform/internal/http/handlers/upload/extracttext"
	"github.com/magabrotheeeer/course-access-platform/internal/http/middlewarectx"
	accessservice "github.com/magabrotheeeer/course-access-platform/internal/services/access"
	authservice "github.com/magabrotheeeer/course-access-platform/internal/services/auth"
	courseservice "github.com/magabrotheeeer/course-access-platform/internal/services/course"
	gamificationservice "github.com/magabrotheeeer/course-access-platform/internal/services/gamification"
	paymentservice "github.com/magabrotheeeer/course-access-platform/internal/services/payment"
	subservice "github.com/magabrotheeeer/course-access-platform/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	authService *authservice.AuthService,
	courseService *courseservice.CourseService,
	accessDecider *accessservice.CachedDecider,
	subscriptionService *subservice.SubscriptionService,
	paymentService *paymentservice.Service,
	gamificationService *gamificationservice.Service,
	webhookSecret string,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/courses", courselist.New(logger, courseService).ServeHTTP)
		r.Get("/courses/categories", courselist.New(logger, courseService).Categories)
		r.Get("/courses/{id}", courseread.New(logger, courseService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/courses/{id}/access", accesscheck.New(logger, accessDecider).ServeHTTP)
			r.Post("/payments/checkout", checkout.New(logger, paymentService).ServeHTTP)
			r.Get("/payments/list", paymentlist.New(logger, paymentService).ServeHTTP)
			r.Get("/subscriptions/current", current.New(logger, subscriptionService).ServeHTTP)
			r.Post("/reading/events", readingevent.New(logger, gamificationService).ServeHTTP)
			r.Get("/reading/progress", readingprogress.New(logger, gamificationService).ServeHTTP)

			// Административные конечные точки
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Post("/courses", coursecreate.New(logger, courseService).ServeHTTP)
				r.Put("/courses/{id}", courseupdate.New(logger, courseService).ServeHTTP)
				r.Delete("/courses/{id}", courseremove.New(logger, courseService).ServeHTTP)
				accessRuleHandler := accessrule.New(logger, courseService)
				r.Post("/courses/{id}/access-rules", accessRuleHandler.ServeHTTP)
				r.Delete("/courses/{id}/access-rules/{userUID}", accessRuleHandler.Remove)
				r.Post("/uploads/extract-text", extracttext.New(logger).ServeHTTP)
			})
		})

		// Webhook endpoint (без аутентификации)
		r.Post("/payments/webhook", paymentwebhook.New(logger, paymentService, webhookSecret).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
