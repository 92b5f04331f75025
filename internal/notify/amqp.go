package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"orderdesk/internal/domain"
	applog "orderdesk/internal/log"
)

const (
	ExchangeName = "orderdesk.notifications"
	ExchangeType = "topic"
	routingKey   = "notify.customer"
)

type message struct {
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
	SentAt    string `json:"sent_at"`
}

// AMQPNotifier publishes notifications to a RabbitMQ topic exchange. Failures
// are logged and swallowed: a lost notification must never fail an order.
type AMQPNotifier struct {
	ch *amqp.Channel
}

// Dial handles the connection and exchange declaration, retrying briefly so
// the service survives a broker that is still starting up.
func Dial(url string) (*AMQPNotifier, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		log.Printf("[amqp] connect attempt %d failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("could not open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		ExchangeName, // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		return nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	return &AMQPNotifier{ch: ch}, nil
}

func (n *AMQPNotifier) Notify(recipient, msg string) {
	body, err := json.Marshal(message{
		Recipient: recipient,
		Message:   msg,
		SentAt:    domain.FormatTime(time.Now()),
	})
	if err != nil {
		applog.Error(nil, "notify.marshal", err, nil)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := n.ch.PublishWithContext(ctx,
		ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		applog.Error(nil, "notify.publish", err, map[string]any{"recipient": recipient})
	}
}
