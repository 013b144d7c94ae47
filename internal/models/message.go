package models

import "time"

// InboundMessage is one customer text delivered by the messaging transport.
// CustomerID is an opaque per-conversation identity string.
type InboundMessage struct {
	CustomerID string    `json:"customer_id"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"received_at"`
}

// OutboundMessage is one reply text handed back to the transport for
// delivery. Delivery is best-effort; the transport owns reliability.
type OutboundMessage struct {
	CustomerID string    `json:"customer_id"`
	Text       string    `json:"text"`
	SentAt     time.Time `json:"sent_at"`
}
