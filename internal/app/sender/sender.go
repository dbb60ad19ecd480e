// Package sender собирает воркер отправки квитанций: очередь и SMTP-транспорт.
package sender

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/course-access-platform/internal/config"
	"github.com/magabrotheeeer/course-access-platform/internal/lib/smtp"
	"github.com/magabrotheeeer/course-access-platform/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/course-access-platform/internal/services/sender"
)

// App — воркер отправки писем с квитанциями.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	receiptQueue  string
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New собирает воркер: подключение к брокеру, канал и SMTP-транспорт.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitURL, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.ReceiptQueue)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.NewSenderService(logger, newTransport)

	return &App{
		conn:          conn,
		ch:            ch,
		receiptQueue:  cfg.ReceiptQueue,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди квитанций и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, a.receiptQueue, a.senderService.SendPaymentReceipt)
	if err != nil {
		a.logger.Error("failed to start receipt queue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
