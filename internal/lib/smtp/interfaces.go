package smtp

import "io"

// Client — минимальный интерфейс SMTP-сессии, который использует сервис
// отправки квитанций. Выделен для подмены в тестах.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface устанавливает соединение с SMTP-сервером
// и сообщает адрес отправителя.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
