package replylog

import (
	"context"
	"fmt"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/logger"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/messaging"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/models"
)

// Subscriber consumes outbound replies and prints them to stdout. It
// stands in for the real messaging bridge during local runs, so the whole
// conversation can be followed without a connected transport.
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger
}

// NewSubscriber creates a reply-log subscriber.
func NewSubscriber(consumer *messaging.Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   log,
	}
}

// Run consumes outbound replies until the context is done.
func (s *Subscriber) Run(ctx context.Context) error {
	return s.consumer.StartConsuming(ctx, s.handleReply)
}

func (s *Subscriber) handleReply(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var msg models.OutboundMessage
	if err := messaging.ParseMessage(body, &msg); err != nil {
		s.logger.Error("message_parsing_failed", "Dropping malformed outbound message", requestID, err, nil)
		return nil
	}

	fmt.Printf("📤 [%s] → %s:\n%s\n\n", msg.SentAt.Local().Format("15:04:05"), msg.CustomerID, msg.Text)

	s.logger.Debug("reply_displayed", "Outbound reply displayed", requestID, map[string]interface{}{
		"customer_id": msg.CustomerID,
		"text_length": len(msg.Text),
	})

	return nil
}
