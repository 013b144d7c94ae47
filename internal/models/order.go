package models

import (
	"fmt"
	"time"
)

// OrderStatus represents the fulfillment stage of a finalized order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// ParseStatus validates a raw status string. The store accepts any of the
// four known values in any order; it does not enforce forward-only
// transitions.
func ParseStatus(raw string) (OrderStatus, error) {
	switch OrderStatus(raw) {
	case StatusPending, StatusPreparing, StatusCompleted, StatusCancelled:
		return OrderStatus(raw), nil
	default:
		return "", fmt.Errorf("status must be one of: pending, preparing, completed, cancelled")
	}
}

// Order is the durable record of a checked-out cart. Everything except
// Status is frozen at creation time.
type Order struct {
	ID               int64       `json:"id"`
	CustomerID       string      `json:"customer_id"`
	Lines            []CartLine  `json:"items"`
	Total            float64     `json:"total"`
	EstimatedMinutes int         `json:"estimated_minutes"`
	Status           OrderStatus `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
	DeliveryETA      time.Time   `json:"delivery_eta"`
}

// Clone returns a deep copy so callers can never mutate store state
// through a returned order.
func (o Order) Clone() Order {
	clone := o
	clone.Lines = make([]CartLine, len(o.Lines))
	copy(clone.Lines, o.Lines)
	return clone
}
