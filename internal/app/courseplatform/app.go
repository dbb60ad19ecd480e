package courseplatform

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/course-access-platform/internal/cache"
	"github.com/magabrotheeeer/course-access-platform/internal/config"
	"github.com/magabrotheeeer/course-access-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/course-access-platform/internal/migrations"
	"github.com/magabrotheeeer/course-access-platform/internal/paymentprovider"
	"github.com/magabrotheeeer/course-access-platform/internal/rabbitmq"
	accessservice "github.com/magabrotheeeer/course-access-platform/internal/services/access"
	authservice "github.com/magabrotheeeer/course-access-platform/internal/services/auth"
	courseservice "github.com/magabrotheeeer/course-access-platform/internal/services/course"
	gamificationservice "github.com/magabrotheeeer/course-access-platform/internal/services/gamification"
	paymentservice "github.com/magabrotheeeer/course-access-platform/internal/services/payment"
	subservice "github.com/magabrotheeeer/course-access-platform/internal/services/subscription"
	"github.com/magabrotheeeer/course-access-platform/internal/storage/repository"
	"github.com/streadway/amqp"
)

// App — основное приложение платформы: HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	amqp   *amqp.Connection
}

// New собирает приложение: хранилище, миграции, кеш, платёжный шлюз,
// очередь квитанций, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitURL, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.ReceiptQueue)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	gatewayClient := paymentprovider.NewClient(cfg.GatewayAPIURL, cfg.GatewayAPIKey)

	authService := authservice.NewAuthService(db, jwtMaker)
	courseService := courseservice.NewCourseService(db, cacheRedis, cfg.CacheTTL, logger)
	accessDecider := accessservice.NewCachedDecider(
		accessservice.NewDecider(db, logger), cacheRedis, cfg.CacheTTL.AccessTTL, logger)
	subscriptionService := subservice.NewSubscriptionService(db, logger)
	paymentService := paymentservice.New(db, gatewayClient, rabbitmq.NewReceiptPublisher(ch), logger)
	gamificationService := gamificationservice.New(db, accessDecider, cfg.PointsPerPage, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger,
		authService, courseService, accessDecider,
		subscriptionService, paymentService, gamificationService,
		cfg.WebhookSecret)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		amqp:   conn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.amqp.Close(); closeErr != nil {
			a.logger.Error("failed to close rabbitmq connection", slog.Any("err", closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", slog.Any("err", closeErr))
		}
		return err
	}
}
