package models

import "time"

// Cart event types published after a successful cart mutation.
const (
	CartCreated = "cart.created"
	CartUpdated = "cart.updated"
	CartDeleted = "cart.deleted"
)

type CartEvent struct {
	Event     string    `json:"event"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id,omitempty"`
	Quantity  int       `json:"quantity"`
	Items     int       `json:"items"`
	Timestamp time.Time `json:"timestamp"`
}
