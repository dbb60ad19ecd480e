package rabbitmq

import (
	"context"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// maxInFlight ограничивает количество одновременно обрабатываемых сообщений.
// Согласован с prefetch в SetupChannel.
const maxInFlight = 10

// ConsumerMessage подписывается на очередь и передаёт тело каждого сообщения
// в handler. Успешно обработанные сообщения подтверждаются, ошибки приводят
// к возврату сообщения в очередь (повторная доставка). Потребление
// останавливается при отмене контекста.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"

	delivery, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, maxInFlight)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					handleDelivery(d, handler)
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func handleDelivery(d amqp.Delivery, handler func([]byte) error) {
	if err := handler(d.Body); err != nil {
		if nackErr := d.Nack(false, true); nackErr != nil {
			log.Printf("failed to nack message: %v", nackErr)
		}
		return
	}
	if ackErr := d.Ack(false); ackErr != nil {
		log.Printf("failed to ack message: %v", ackErr)
	}
}
