package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/logger"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/models"
)

// Publisher handles message publishing to RabbitMQ
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new message publisher
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishReply publishes an outbound reply for the messaging bridge to
// deliver to the customer.
func (p *Publisher) PublishReply(ctx context.Context, msg models.OutboundMessage) error {
	return p.publish(ctx, OutgoingRoutingKey, msg)
}

// PublishInbound publishes an inbound customer message. The production
// bridge publishes these itself; this path exists for local tooling that
// feeds the bot without a real transport.
func (p *Publisher) PublishInbound(ctx context.Context, msg models.InboundMessage) error {
	return p.publish(ctx, IncomingRoutingKey, msg)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, message interface{}) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: 2, // persistent
		Timestamp:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		MessagesExchange, // exchange
		routingKey,       // routing key
		false,            // mandatory
		false,            // immediate
		publishing,
	)

	if err != nil {
		p.logger.Error("message_publish_failed",
			fmt.Sprintf("Failed to publish message with routing key %s", routingKey),
			"", err, map[string]interface{}{
				"routing_key": routingKey,
			})
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.Debug("message_published",
		fmt.Sprintf("Published message with routing key %s", routingKey),
		"", map[string]interface{}{
			"routing_key":  routingKey,
			"message_size": len(body),
		})

	return nil
}

// Close closes the publisher
func (p *Publisher) Close() error {
	return p.conn.Close()
}
