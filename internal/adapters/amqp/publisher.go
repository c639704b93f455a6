// Package amqp publishes replica status records to a RabbitMQ topic exchange.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bft-labs/tablestress/internal/domain"
	"github.com/bft-labs/tablestress/pkg/log"
)

const (
	// DefaultExchange receives replica status messages.
	DefaultExchange = "tablestress.replica"
	// RoutingKeyStatus is the routing key of every status message.
	RoutingKeyStatus = "replica.status"
	// MessageTypeStatus tags status messages.
	MessageTypeStatus = "replica.status"
)

// Message is the JSON body of a published status.
type Message struct {
	ID        string               `json:"id"`
	Type      string               `json:"type"`
	Payload   domain.ReplicaStatus `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher implements ports.StatusSink over an AMQP channel.
type Publisher struct {
	exchange string
	logger   log.Logger

	mu   sync.Mutex
	ch   channel
	conn *amqp.Connection
	now  func() time.Time
}

// Dial connects to url, declares exchange as a durable topic exchange and
// returns a Publisher on it. An empty exchange uses DefaultExchange.
func Dial(url, exchange string, logger log.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := newPublisher(ch, exchange, logger)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	p.conn = conn
	logger.Info("connected to broker", log.String("exchange", p.exchange))
	return p, nil
}

func newPublisher(ch channel, exchange string, logger log.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Publisher{
		exchange: exchange,
		logger:   logger,
		ch:       ch,
		now:      time.Now,
	}, nil
}

// Publish sends status as a persistent JSON message.
func (p *Publisher) Publish(ctx context.Context, status domain.ReplicaStatus) error {
	msg := Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeStatus,
		Payload:   status,
		Timestamp: p.now(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKeyStatus, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    msg.Timestamp,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish to %s/%s: %w", p.exchange, RoutingKeyStatus, err)
	}

	p.logger.Debug("published status",
		log.String("message_id", msg.ID),
		log.String("source", status.Source),
	)
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var first error
	if err := p.ch.Close(); err != nil {
		first = fmt.Errorf("close channel: %w", err)
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && first == nil {
			first = fmt.Errorf("close connection: %w", err)
		}
	}
	return first
}
