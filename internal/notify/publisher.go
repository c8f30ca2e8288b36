// Package notify publishes order confirmations for the notifier fleet.
package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const confirmationsExchange = "order_confirmations"

// OrderConfirmation is the event body consumed by email/push workers.
type OrderConfirmation struct {
	OrderID      string `json:"order_id"`
	TenantID     string `json:"tenant_id"`
	CustomerName string `json:"customer_name"`
	Total        string `json:"total"`
	Method       string `json:"payment_method"`
	TableNumber  int    `json:"table_number,omitempty"`
}

type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func Connect(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := channel.ExchangeDeclare(
		confirmationsExchange,
		"fanout",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, channel: channel}, nil
}

func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

func (p *Publisher) PublishOrderConfirmed(ctx context.Context, c OrderConfirmation) error {
	body, err := json.Marshal(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.channel.PublishWithContext(ctx,
		confirmationsExchange,
		"",    // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
}
