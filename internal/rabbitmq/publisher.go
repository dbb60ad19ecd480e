package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// Channel — минимальный контракт канала AMQP, используемый публикацией.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PublishMessage публикует сообщение в RabbitMQ в формате JSON.
func PublishMessage(ch Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReceiptPublisher публикует события квитанций в exchange квитанций.
type ReceiptPublisher struct {
	ch Channel
}

// NewReceiptPublisher создает новый экземпляр ReceiptPublisher.
func NewReceiptPublisher(ch Channel) *ReceiptPublisher {
	return &ReceiptPublisher{ch: ch}
}

// Publish отправляет событие квитанции с ключом маршрутизации квитанций.
func (p *ReceiptPublisher) Publish(message any) error {
	return PublishMessage(p.ch, ReceiptsExchange, ReceiptRoutingKey, message)
}
