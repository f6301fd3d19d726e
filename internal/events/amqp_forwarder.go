package events

import (
	"context"
	"encoding/json"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AMQPForwarder bridges dispatcher events onto a RabbitMQ topic exchange so
// external notification consumers (email, push) can pick them up. Publish
// failures are logged and dropped; the triggering request never sees them.
type AMQPForwarder struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   *zap.Logger
}

// NewAMQPForwarder connects to RabbitMQ and declares the exchange.
func NewAMQPForwarder(url, exchange string, logger *zap.Logger) (*AMQPForwarder, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}
	return &AMQPForwarder{conn: conn, channel: ch, exchange: exchange, logger: logger}, nil
}

// Attach subscribes the forwarder to every ticket event type.
func (f *AMQPForwarder) Attach(dispatcher Dispatcher) {
	for _, eventType := range []EventType{EventTicketCreated, EventTicketStatusChanged, EventTicketReplyAdded} {
		dispatcher.Subscribe(eventType, f.forward)
	}
}

func (f *AMQPForwarder) forward(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		f.logger.Warn("marshal event", zap.String("event_id", event.ID), zap.Error(err))
		return nil
	}
	err = f.channel.PublishWithContext(ctx, f.exchange, string(event.Type), false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		f.logger.Warn("forward event to amqp",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return nil
}

// Close terminates the connection.
func (f *AMQPForwarder) Close() error {
	if f == nil {
		return nil
	}
	if err := f.channel.Close(); err != nil {
		f.logger.Warn("close amqp channel", zap.Error(err))
	}
	return f.conn.Close()
}
