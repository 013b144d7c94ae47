package orders

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/models"
)

// MemoryStore is an in-memory Store with the same semantics as the
// Postgres implementation. It backs tests and DB-less local runs.
type MemoryStore struct {
	mu             sync.RWMutex
	nextID         int64
	orders         map[int64]models.Order
	deliveryBuffer time.Duration

	// now is swappable in tests that exercise time boundaries.
	now func() time.Time
}

// NewMemoryStore creates an empty in-memory order store.
func NewMemoryStore(deliveryBuffer time.Duration) *MemoryStore {
	return &MemoryStore{
		nextID:         1,
		orders:         make(map[int64]models.Order),
		deliveryBuffer: deliveryBuffer,
		now:            time.Now,
	}
}

// Create assigns the next id and stores a snapshot of the lines. Ids are
// monotonically increasing and never reused, even after Cleanup.
func (s *MemoryStore) Create(ctx context.Context, customerID string, lines []models.CartLine) (models.Order, error) {
	if len(lines) == 0 {
		return models.Order{}, ErrEmptyOrder
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := s.now().UTC()
	order := models.Order{
		ID:               s.nextID,
		CustomerID:       customerID,
		Lines:            make([]models.CartLine, len(lines)),
		Total:            models.LinesTotal(lines),
		EstimatedMinutes: models.EstimatedMinutes(lines),
		Status:           models.StatusPending,
		CreatedAt:        createdAt,
	}
	copy(order.Lines, lines)
	order.DeliveryETA = createdAt.
		Add(time.Duration(order.EstimatedMinutes) * time.Minute).
		Add(s.deliveryBuffer)

	s.nextID++
	s.orders[order.ID] = order

	return order.Clone(), nil
}

// GetByID returns a snapshot of the order or ErrOrderNotFound.
func (s *MemoryStore) GetByID(ctx context.Context, id int64) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	return order.Clone(), nil
}

// ListAll returns every order, oldest first.
func (s *MemoryStore) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.listWhere(func(models.Order) bool { return true }), nil
}

// ListByCustomer returns all orders placed by one customer.
func (s *MemoryStore) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	return s.listWhere(func(o models.Order) bool { return o.CustomerID == customerID }), nil
}

// ListByStatus returns all orders currently in the given status.
func (s *MemoryStore) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return s.listWhere(func(o models.Order) bool { return o.Status == status }), nil
}

// ListByDate returns orders created within the calendar day of the given
// time, in that time's location.
func (s *MemoryStore) ListByDate(ctx context.Context, day time.Time) ([]models.Order, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	return s.listWhere(func(o models.Order) bool {
		created := o.CreatedAt.In(day.Location())
		return !created.Before(start) && created.Before(end)
	}), nil
}

func (s *MemoryStore) listWhere(keep func(models.Order) bool) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Order
	for _, order := range s.orders {
		if keep(order) {
			result = append(result, order.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// UpdateStatus sets the status of an existing order. Any of the four known
// statuses is accepted regardless of the current one.
func (s *MemoryStore) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	if _, err := models.ParseStatus(string(status)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	order.Status = status
	s.orders[id] = order
	return nil
}

// Cleanup removes orders created strictly before now minus the retention
// window and returns the number removed. Orders exactly on the cutoff are
// retained.
func (s *MemoryStore) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().UTC().Add(-olderThan)

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, order := range s.orders {
		if order.CreatedAt.Before(cutoff) {
			delete(s.orders, id)
			removed++
		}
	}
	return removed, nil
}

var _ Store = (*MemoryStore)(nil)
