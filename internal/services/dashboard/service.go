package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/logger"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/menu"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/models"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/services/orders"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/services/stats"
)

// Service backs the staff-facing reporting surface: read-only queries,
// status transitions, and maintenance operations. All writes go through
// the store's own validation.
type Service struct {
	store    orders.Store
	stats    *stats.Aggregator
	catalog  *menu.Catalog
	menuPath string
	logger   *logger.Logger
}

// NewService creates the dashboard service.
func NewService(store orders.Store, aggregator *stats.Aggregator, catalog *menu.Catalog, menuPath string, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		stats:    aggregator,
		catalog:  catalog,
		menuPath: menuPath,
		logger:   log,
	}
}

// ListOrders returns orders matching at most one filter. An empty filter
// returns the full listing.
func (s *Service) ListOrders(ctx context.Context, customer, status, date string) ([]models.Order, error) {
	switch {
	case customer != "":
		return s.store.ListByCustomer(ctx, customer)
	case status != "":
		parsed, err := models.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		return s.store.ListByStatus(ctx, parsed)
	case date != "":
		day, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("date must be formatted as YYYY-MM-DD")
		}
		return s.store.ListByDate(ctx, day)
	default:
		return s.store.ListAll(ctx)
	}
}

// GetOrder fetches one order by id.
func (s *Service) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	return s.store.GetByID(ctx, id)
}

// UpdateStatus transitions an order to the given status.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) error {
	parsed, err := models.ParseStatus(status)
	if err != nil {
		return err
	}
	return s.store.UpdateStatus(ctx, id, parsed)
}

// Cleanup removes orders older than the given number of days and returns
// the count removed.
func (s *Service) Cleanup(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, fmt.Errorf("days must be positive")
	}
	return s.store.Cleanup(ctx, time.Duration(days)*24*time.Hour)
}

// ReloadMenu re-reads the menu file and atomically swaps the catalog.
func (s *Service) ReloadMenu() error {
	if err := s.catalog.Reload(s.menuPath); err != nil {
		return err
	}
	s.logger.Info("menu_reloaded", "Menu catalog reloaded", "", map[string]interface{}{
		"items": s.catalog.Len(),
	})
	return nil
}

// MenuItems returns the current catalog contents.
func (s *Service) MenuItems() []models.MenuItem {
	return s.catalog.Items()
}

// Stats exposes the aggregator for read-only statistics.
func (s *Service) Stats() *stats.Aggregator {
	return s.stats
}

// HealthCheck reports whether the backing store is reachable.
func (s *Service) HealthCheck(ctx context.Context) bool {
	pinger, ok := s.store.(interface{ Ping(context.Context) error })
	if !ok {
		return true
	}
	if err := pinger.Ping(ctx); err != nil {
		s.logger.Error("health_check_failed", "Store ping failed", "", err, nil)
		return false
	}
	return true
}
