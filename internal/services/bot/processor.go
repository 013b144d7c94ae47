package bot

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/logger"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/menu"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/models"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/services/orders"
)

// CheckoutKeyword finalizes an active cart. Matched case-insensitively;
// a digits-only message can never collide with it.
const CheckoutKeyword = "ENVIAR"

// persistTimeout bounds the store call during checkout so a slow database
// surfaces as a retryable failure instead of hanging the conversation.
const persistTimeout = 10 * time.Second

var digitRuns = regexp.MustCompile(`\d+`)

// Processor turns one inbound text plus the customer's session into a
// reply, mutating the session and creating orders on checkout.
type Processor struct {
	catalog  *menu.Catalog
	store    orders.Store
	registry *Registry
	replies  *Replies
	logger   *logger.Logger
}

// NewProcessor creates the message processor.
func NewProcessor(catalog *menu.Catalog, store orders.Store, registry *Registry, replies *Replies, log *logger.Logger) *Processor {
	return &Processor{
		catalog:  catalog,
		store:    store,
		registry: registry,
		replies:  replies,
		logger:   log,
	}
}

// Handle processes one inbound message and returns the reply text. Calls
// for the same customer serialize on the session; calls for different
// customers run independently.
func (p *Processor) Handle(ctx context.Context, msg models.InboundMessage) string {
	var reply string
	p.registry.withSession(msg.CustomerID, func(s *session) {
		reply = p.handle(ctx, msg.CustomerID, s, msg.Text)
	})
	return reply
}

func (p *Processor) handle(ctx context.Context, customerID string, s *session, text string) string {
	trimmed := strings.TrimSpace(text)

	if strings.EqualFold(trimmed, CheckoutKeyword) {
		return p.checkout(ctx, customerID, s)
	}

	candidates := digitRuns.FindAllString(trimmed, -1)
	if len(candidates) == 0 {
		return p.replies.Welcome()
	}

	added := 0
	var unknown []string
	for _, candidate := range candidates {
		number, err := strconv.Atoi(candidate)
		if err != nil {
			unknown = append(unknown, candidate)
			continue
		}
		item, ok := p.catalog.Lookup(number)
		if !ok {
			unknown = append(unknown, candidate)
			continue
		}
		s.addLine(item)
		added++
	}

	if len(unknown) > 0 {
		p.logger.Debug("unknown_items_skipped", "Skipped unknown item numbers", "", map[string]interface{}{
			"customer_id": customerID,
			"unknown":     unknown,
		})
	}

	if added == 0 {
		return p.replies.NoValidItems()
	}

	return p.replies.CartSummary(s.lines, s.total)
}

// checkout converts the session into a durable order. On persistence
// failure the session is kept so the customer can retry without
// re-entering items.
func (p *Processor) checkout(ctx context.Context, customerID string, s *session) string {
	if len(s.lines) == 0 {
		return p.replies.EmptyOrder()
	}

	persistCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	order, err := p.store.Create(persistCtx, customerID, s.lines)
	if err != nil {
		p.logger.Error("checkout_failed", "Failed to persist order, session kept for retry", "", err, map[string]interface{}{
			"customer_id": customerID,
			"lines":       len(s.lines),
			"total":       s.total,
		})
		return p.replies.ProcessingError()
	}

	p.registry.close(customerID, s)

	p.logger.Info("checkout_completed", "Session converted to order", "", map[string]interface{}{
		"customer_id":       customerID,
		"order_id":          order.ID,
		"total":             order.Total,
		"estimated_minutes": order.EstimatedMinutes,
	})

	return p.replies.Confirmed(order)
}
