package messaging

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher is the sending side used by services that emit events.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

type RabbitMQClient struct {
	conn *amqp.Connection
	chn  *amqp.Channel
}

func NewClient(url string) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	chn, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return &RabbitMQClient{conn: conn, chn: chn}, nil
}

func (r *RabbitMQClient) Close() error {
	if err := r.chn.Close(); err != nil && err != amqp.ErrClosed {
		return err
	}
	if err := r.conn.Close(); err != nil && err != amqp.ErrClosed {
		return err
	}
	return nil
}

// DeclareQueue makes sure a durable queue exists.
func (r *RabbitMQClient) DeclareQueue(queue string) error {
	_, err := r.chn.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	return err
}

func (r *RabbitMQClient) Publish(ctx context.Context, queue string, body []byte) error {
	return r.chn.PublishWithContext(
		ctx,
		"",
		queue,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Consume starts delivering messages with manual acks, at most prefetch
// unacknowledged at a time.
func (r *RabbitMQClient) Consume(queue string, prefetch int) (<-chan amqp.Delivery, error) {
	if prefetch > 0 {
		if err := r.chn.Qos(prefetch, 0, false); err != nil {
			return nil, fmt.Errorf("failed to set prefetch: %w", err)
		}
	}

	return r.chn.Consume(
		queue,
		"",
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
}

// NotifyClose reports when the broker connection goes away.
func (r *RabbitMQClient) NotifyClose() <-chan *amqp.Error {
	return r.conn.NotifyClose(make(chan *amqp.Error, 1))
}
