package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// ReceiptsExchange — exchange для событий квитанций об оплате.
const ReceiptsExchange = "receipts"

// ReceiptRoutingKey — ключ маршрутизации квитанций.
const ReceiptRoutingKey = "payment.receipt"

// SetupChannel открывает канал, объявляет exchange квитанций и привязывает
// к нему очередь воркера.
func SetupChannel(conn *amqp.Connection, receiptQueue string) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	err = ch.ExchangeDeclare(
		ReceiptsExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = ch.QueueDeclare(
		receiptQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, receiptQueue, err)
	}

	err = ch.QueueBind(receiptQueue, ReceiptRoutingKey, ReceiptsExchange, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to bind queue %s: %w", op, receiptQueue, err)
	}

	return ch, nil
}
