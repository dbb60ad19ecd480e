package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Connect подключается к RabbitMQ, повторяя попытку retries раз
// с паузой delay. Возвращает последнюю ошибку, если брокер так и
// не стал доступен.
func Connect(url string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		conn, err := amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: after %d attempts: %w", op, retries, lastErr)
}
