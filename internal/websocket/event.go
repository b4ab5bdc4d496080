package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeUpdated   EventType = "updated"
	EventTypeDeleted   EventType = "deleted"
	EventTypeDelivered EventType = "delivered"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeClient  EntityType = "client"
	EntityTypeOrder   EntityType = "order"
	EntityTypePayment EntityType = "payment"
	EntityTypeExpense EntityType = "expense"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "order.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "order"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ClientCreated creates a client.created event
func ClientCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeClient, payload)
}

// ClientUpdated creates a client.updated event
func ClientUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeClient, payload)
}

// ClientDeleted creates a client.deleted event
func ClientDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeClient, payload)
}

// OrderCreated creates an order.created event
func OrderCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeOrder, payload)
}

// OrderUpdated creates an order.updated event
func OrderUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeOrder, payload)
}

// OrderDeleted creates an order.deleted event
func OrderDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeOrder, payload)
}

// OrderDelivered creates an order.delivered event
func OrderDelivered(payload interface{}) Event {
	return NewEvent(EventTypeDelivered, EntityTypeOrder, payload)
}

// PaymentCreated creates a payment.created event
func PaymentCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypePayment, payload)
}

// PaymentUpdated creates a payment.updated event
func PaymentUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypePayment, payload)
}

// PaymentDeleted creates a payment.deleted event
func PaymentDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypePayment, payload)
}

// ExpenseCreated creates an expense.created event
func ExpenseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}

// ExpenseUpdated creates an expense.updated event
func ExpenseUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeExpense, payload)
}

// ExpenseDeleted creates an expense.deleted event
func ExpenseDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeExpense, payload)
}
