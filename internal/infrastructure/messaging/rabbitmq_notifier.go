package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"careconnect/internal/usecase/interfaces"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultBookingExchange = "booking.events"

// RabbitMQNotifier publishes booking events to a durable topic exchange.
// Email and SMS workers bind queues by event type (e.g. "booking.paid").
type RabbitMQNotifier struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

var _ interfaces.INotificationDispatcher = (*RabbitMQNotifier)(nil)

func NewRabbitMQNotifier(url, exchange string) (*RabbitMQNotifier, error) {
	if exchange == "" {
		exchange = DefaultBookingExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	log.Printf("[booking][notify] rabbitmq publisher ready exchange=%s", exchange)
	return &RabbitMQNotifier{conn: conn, ch: ch, exchange: exchange}, nil
}

func (n *RabbitMQNotifier) Dispatch(ctx context.Context, event interfaces.BookingEvent) error {
	msg, err := buildPublishing(event)
	if err != nil {
		return err
	}
	// amqp channels are not safe for concurrent publishes.
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ch.PublishWithContext(ctx, n.exchange, event.Type, false, false, msg)
}

func (n *RabbitMQNotifier) Close() error {
	if n.ch != nil {
		_ = n.ch.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}

func buildPublishing(event interfaces.BookingEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    fmt.Sprintf("%s:%s:%d", event.BookingID, event.Type, event.OccurredAt.UnixNano()),
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Body:         body,
	}, nil
}
