// Package sender содержит логику отправки писем с квитанциями об оплате.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/course-access-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-access-platform/internal/lib/smtp"
	"github.com/magabrotheeeer/course-access-platform/internal/metrics"
	"github.com/magabrotheeeer/course-access-platform/internal/models"
)

// SenderService отправляет письма по событиям из очереди квитанций.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendPaymentReceipt разбирает событие квитанции и отправляет письмо
// о подтверждённой оплате.
func (s *SenderService) SendPaymentReceipt(body []byte) error {
	var message models.ReceiptEvent
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Подтверждение оплаты"
	bodyText := fmt.Sprintf(`Здравствуйте, %s!

Ваш платёж на сумму %.2f успешно подтверждён.
Номер платежа: %s
Дата оплаты: %s

Спасибо, что учитесь с нами.`,
		message.Username, message.Amount, message.GatewayPaymentID,
		message.PaidAt.Format("02.01.2006 15:04"))

	if err := s.sendEmail(to, subject, bodyText); err != nil {
		metrics.ReceiptsSent.WithLabelValues("error").Inc()
		return err
	}
	metrics.ReceiptsSent.WithLabelValues("ok").Inc()
	return nil
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
