package database

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (customer_id, total, estimated_minutes, status, created_at, delivery_eta)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, position, number, name, price, prep_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)`

	GetOrderByIDSQL = `
		SELECT id, customer_id, total, estimated_minutes, status, created_at, delivery_eta
		FROM orders WHERE id = $1`

	GetOrderItemsSQL = `
		SELECT number, name, price, prep_minutes
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC`

	ListAllOrdersSQL = `
		SELECT id, customer_id, total, estimated_minutes, status, created_at, delivery_eta
		FROM orders ORDER BY id ASC`

	ListOrdersByCustomerSQL = `
		SELECT id, customer_id, total, estimated_minutes, status, created_at, delivery_eta
		FROM orders WHERE customer_id = $1 ORDER BY id ASC`

	ListOrdersByStatusSQL = `
		SELECT id, customer_id, total, estimated_minutes, status, created_at, delivery_eta
		FROM orders WHERE status = $1 ORDER BY id ASC`

	ListOrdersByDateSQL = `
		SELECT id, customer_id, total, estimated_minutes, status, created_at, delivery_eta
		FROM orders WHERE created_at >= $1 AND created_at < $2 ORDER BY id ASC`

	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $1 WHERE id = $2`

	CleanupOrdersSQL = `
		DELETE FROM orders WHERE created_at < $1`
)
