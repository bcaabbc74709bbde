// Package messaging publishes domain events about sales and restocking.
package messaging

import (
	"time"

	"github.com/google/uuid"
)

const (
	CartCheckedOut   = "cart.checked_out"
	ReorderRequested = "reorder.requested"
	ReorderFulfilled = "reorder.fulfilled"
	routingKeyPrefix = "wegmans2."
)

// Event is the JSON envelope of every published message.
type Event struct {
	ID        uuid.UUID   `json:"id"`
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps a payload with a fresh id and the current time.
func NewEvent(eventType string, payload interface{}) Event {
	return Event{ID: uuid.New(), Type: eventType, Timestamp: time.Now().UTC(), Payload: payload}
}

// RoutingKey is the topic an event is published under.
func (e Event) RoutingKey() string { return routingKeyPrefix + e.Type }
