package bot

import (
	"context"
	"time"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/logger"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/messaging"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/models"
)

// Service hosts the intake state machine: it consumes inbound customer
// messages, runs them through the processor, and publishes replies.
type Service struct {
	processor *Processor
	consumer  *messaging.Consumer
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewService wires the bot service.
func NewService(processor *Processor, consumer *messaging.Consumer, publisher *messaging.Publisher, log *logger.Logger) *Service {
	return &Service{
		processor: processor,
		consumer:  consumer,
		publisher: publisher,
		logger:    log,
	}
}

// Run consumes inbound messages until the context is done.
func (s *Service) Run(ctx context.Context) error {
	return s.consumer.StartConsuming(ctx, s.handleDelivery)
}

func (s *Service) handleDelivery(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var msg models.InboundMessage
	if err := messaging.ParseMessage(body, &msg); err != nil {
		// A malformed body would fail identically on every redelivery, so
		// it is logged and dropped instead of nacked into a requeue loop.
		s.logger.Error("message_parsing_failed", "Dropping malformed inbound message", requestID, err, nil)
		return nil
	}
	if msg.CustomerID == "" {
		s.logger.Error("message_invalid", "Dropping inbound message without customer_id", requestID, nil, nil)
		return nil
	}

	s.logger.Debug("inbound_message", "Processing customer message", requestID, map[string]interface{}{
		"customer_id": msg.CustomerID,
		"text_length": len(msg.Text),
	})

	reply := s.processor.Handle(ctx, msg)

	outbound := models.OutboundMessage{
		CustomerID: msg.CustomerID,
		Text:       reply,
		SentAt:     time.Now().UTC(),
	}

	if err := s.publisher.PublishReply(ctx, outbound); err != nil {
		// The session and any created order are already consistent; reply
		// delivery is best-effort, so the inbound message is still acked.
		s.logger.Error("reply_publish_failed", "Failed to publish reply", requestID, err, map[string]interface{}{
			"customer_id": msg.CustomerID,
		})
	}

	return nil
}
