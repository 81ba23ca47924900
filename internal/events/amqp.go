package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPSink publishes slot updates to a durable RabbitMQ queue on the
// default exchange.
type AMQPSink struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

// NewAMQPSink connects to the broker and declares the queue.
func NewAMQPSink(url, queueName string) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	queue, err := channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring queue %q: %w", queueName, err)
	}

	return &AMQPSink{conn: conn, channel: channel, queue: queue}, nil
}

// Publish delivers one slot update as a persistent JSON message.
func (s *AMQPSink) Publish(ctx context.Context, update SlotUpdate) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("encoding slot update: %w", err)
	}

	err = s.channel.PublishWithContext(
		ctx,
		"",           // exchange
		s.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publishing slot update: %w", err)
	}
	return nil
}

// Close tears down the channel and connection.
func (s *AMQPSink) Close() error {
	if err := s.channel.Close(); err != nil {
		s.conn.Close()
		return fmt.Errorf("closing channel: %w", err)
	}
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("closing connection: %w", err)
	}
	return nil
}
