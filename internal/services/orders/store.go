package orders

import (
	"context"
	"errors"
	"time"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/models"
)

var (
	// ErrOrderNotFound is returned for lookups and status updates against
	// an unknown order id.
	ErrOrderNotFound = errors.New("order not found")

	// ErrEmptyOrder is returned when Create is called with no lines. The
	// intake flow blocks empty checkouts before reaching the store; this
	// guard keeps the invariant even for other callers.
	ErrEmptyOrder = errors.New("order must contain at least one line")
)

// Store is the durable, append-mostly log of finalized orders. It owns id
// assignment and status transitions; every returned order is a snapshot
// that cannot mutate store state.
//
// UpdateStatus validates the target against the four known statuses but
// deliberately does not enforce forward-only ordering; the operational
// surface is expected to offer only legal next states.
type Store interface {
	Create(ctx context.Context, customerID string, lines []models.CartLine) (models.Order, error)
	GetByID(ctx context.Context, id int64) (models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	ListByDate(ctx context.Context, day time.Time) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error
	Cleanup(ctx context.Context, olderThan time.Duration) (int64, error)
}
