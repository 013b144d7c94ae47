package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/database"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/logger"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/models"
)

// PostgresStore is the durable Store implementation. BIGSERIAL id
// assignment keeps ids monotonic and never reused, and creating the order
// row together with its item rows in one transaction keeps partial orders
// invisible to readers.
type PostgresStore struct {
	db             *database.DB
	deliveryBuffer time.Duration
	logger         *logger.Logger
}

// NewPostgresStore creates a Postgres-backed order store. deliveryBuffer is
// the fixed slack added on top of prep time when stamping the delivery ETA.
func NewPostgresStore(db *database.DB, deliveryBuffer time.Duration, log *logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:             db,
		deliveryBuffer: deliveryBuffer,
		logger:         log,
	}
}

// Create persists a new order from the given cart lines. Total and
// estimated minutes are derived from the lines at creation time and frozen.
func (s *PostgresStore) Create(ctx context.Context, customerID string, lines []models.CartLine) (models.Order, error) {
	if len(lines) == 0 {
		return models.Order{}, ErrEmptyOrder
	}

	order := models.Order{
		CustomerID:       customerID,
		Lines:            make([]models.CartLine, len(lines)),
		Total:            models.LinesTotal(lines),
		EstimatedMinutes: models.EstimatedMinutes(lines),
		Status:           models.StatusPending,
		CreatedAt:        time.Now().UTC(),
	}
	copy(order.Lines, lines)
	order.DeliveryETA = order.CreatedAt.
		Add(time.Duration(order.EstimatedMinutes) * time.Minute).
		Add(s.deliveryBuffer)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, database.InsertOrderSQL,
		order.CustomerID,
		order.Total,
		order.EstimatedMinutes,
		order.Status,
		order.CreatedAt,
		order.DeliveryETA,
	).Scan(&order.ID)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	for position, line := range order.Lines {
		_, err = tx.Exec(ctx, database.InsertOrderItemSQL,
			order.ID, position, line.Number, line.Name, line.Price, line.PrepMinutes)
		if err != nil {
			return models.Order{}, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, fmt.Errorf("failed to commit order: %w", err)
	}

	s.logger.Info("order_created", fmt.Sprintf("Order #%d created", order.ID), "", map[string]interface{}{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"total":       order.Total,
		"lines":       len(order.Lines),
	})

	return order, nil
}

// GetByID fetches a single order with its lines.
func (s *PostgresStore) GetByID(ctx context.Context, id int64) (models.Order, error) {
	var order models.Order
	err := s.db.QueryRow(ctx, database.GetOrderByIDSQL, id).Scan(
		&order.ID,
		&order.CustomerID,
		&order.Total,
		&order.EstimatedMinutes,
		&order.Status,
		&order.CreatedAt,
		&order.DeliveryETA,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("failed to query order: %w", err)
	}

	order.Lines, err = s.loadLines(ctx, order.ID)
	if err != nil {
		return models.Order{}, err
	}

	return order, nil
}

// ListAll returns every order, oldest first.
func (s *PostgresStore) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.list(ctx, database.ListAllOrdersSQL)
}

// ListByCustomer returns all orders placed by one customer.
func (s *PostgresStore) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	return s.list(ctx, database.ListOrdersByCustomerSQL, customerID)
}

// ListByStatus returns all orders currently in the given status.
func (s *PostgresStore) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return s.list(ctx, database.ListOrdersByStatusSQL, status)
}

// ListByDate returns orders created within the calendar day of the given
// time, in that time's location.
func (s *PostgresStore) ListByDate(ctx context.Context, day time.Time) ([]models.Order, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	return s.list(ctx, database.ListOrdersByDateSQL, start, end)
}

func (s *PostgresStore) list(ctx context.Context, sql string, args ...interface{}) ([]models.Order, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(
			&order.ID,
			&order.CustomerID,
			&order.Total,
			&order.EstimatedMinutes,
			&order.Status,
			&order.CreatedAt,
			&order.DeliveryETA,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order rows: %w", err)
	}

	for i := range result {
		result[i].Lines, err = s.loadLines(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (s *PostgresStore) loadLines(ctx context.Context, orderID int64) ([]models.CartLine, error) {
	rows, err := s.db.Query(ctx, database.GetOrderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var line models.CartLine
		if err := rows.Scan(&line.Number, &line.Name, &line.Price, &line.PrepMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan order item row: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// UpdateStatus sets the status of an existing order. Any of the four known
// statuses is accepted regardless of the current one.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	if _, err := models.ParseStatus(string(status)); err != nil {
		return err
	}

	tag, err := s.db.Pool.Exec(ctx, database.UpdateOrderStatusSQL, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	s.logger.Info("order_status_updated", fmt.Sprintf("Order #%d status set to %s", id, status), "", map[string]interface{}{
		"order_id": id,
		"status":   string(status),
	})

	return nil
}

// Cleanup deletes orders created strictly before now minus the retention
// window and returns the number removed. Orders exactly on the cutoff are
// retained. Item rows go with their order via ON DELETE CASCADE.
func (s *PostgresStore) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	tag, err := s.db.Pool.Exec(ctx, database.CleanupOrdersSQL, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up orders: %w", err)
	}

	removed := tag.RowsAffected()
	if removed > 0 {
		s.logger.Info("orders_cleaned_up", fmt.Sprintf("Removed %d old orders", removed), "", map[string]interface{}{
			"removed": removed,
			"cutoff":  cutoff.Format(time.RFC3339),
		})
	}

	return removed, nil
}

// Ping reports whether the backing database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

var _ Store = (*PostgresStore)(nil)
