// Package smtp реализует почтовый транспорт для отправки квитанций об оплате.
// Соединение всегда поднимается через STARTTLS, plain-auth без TLS не допускается.
package smtp

import (
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"

	"github.com/magabrotheeeer/course-access-platform/internal/config"
	"github.com/magabrotheeeer/course-access-platform/internal/lib/sl"
)

// Transport устанавливает аутентифицированные SMTP-сессии
// по настройкам из конфигурации.
type Transport struct {
	cfg config.SMTP
	log *slog.Logger
}

// NewTransport создает новый экземпляр Transport.
func NewTransport(cfg config.SMTP, log *slog.Logger) *Transport {
	return &Transport{cfg: cfg, log: log}
}

// Connect открывает соединение с SMTP-сервером, выполняет STARTTLS
// и plain-аутентификацию. Возвращает готовую к отправке сессию.
func (t *Transport) Connect() (Client, error) {
	addr := net.JoinHostPort(t.cfg.SMTPHost, t.cfg.SMTPPort)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.log.Error("failed to dial SMTP server", sl.Err(err))
		return nil, fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		t.log.Error("failed to create SMTP client", sl.Err(err))
		t.closeQuietly(conn)
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		t.log.Error("SMTP server does not support STARTTLS")
		t.closeQuietly(client)
		return nil, fmt.Errorf("smtp server does not support STARTTLS")
	}
	tlsConfig := &tls.Config{
		ServerName: t.cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		t.log.Error("failed to start TLS", sl.Err(err))
		t.closeQuietly(client)
		return nil, fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPass, t.cfg.SMTPHost)
	if err = client.Auth(auth); err != nil {
		t.log.Error("smtp auth failed", sl.Err(err))
		t.closeQuietly(client)
		return nil, fmt.Errorf("smtp auth failed: %w", err)
	}

	return &smtpClientWrapper{client: client}, nil
}

// GetSMTPUser возвращает адрес отправителя писем.
func (t *Transport) GetSMTPUser() string {
	return t.cfg.SMTPUser
}

func (t *Transport) closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		t.log.Error("failed to close smtp connection", sl.Err(err))
	}
}

// smtpClientWrapper адаптирует *smtp.Client к интерфейсу Client.
type smtpClientWrapper struct {
	client *smtp.Client
}

func (w *smtpClientWrapper) Mail(from string) error        { return w.client.Mail(from) }
func (w *smtpClientWrapper) Rcpt(to string) error          { return w.client.Rcpt(to) }
func (w *smtpClientWrapper) Data() (io.WriteCloser, error) { return w.client.Data() }
func (w *smtpClientWrapper) Quit() error                   { return w.client.Quit() }
func (w *smtpClientWrapper) Close() error                  { return w.client.Close() }
