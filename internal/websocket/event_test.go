package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":          1,
		"orderName":   "Garden bench",
		"orderAmount": "1000.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeOrder, payload)
	after := time.Now()

	assert.Equal(t, "order.created", evt.Type)
	assert.Equal(t, EntityTypeOrder, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_ToJSON(t *testing.T) {
	payload := map[string]interface{}{
		"id": float64(42),
	}

	evt := NewEvent(EventTypeUpdated, EntityTypePayment, payload)

	data, err := evt.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	var decoded map[string]interface{}
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "payment.updated", decoded["type"])
	assert.Equal(t, "payment", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestEvent_JSON_Serialization(t *testing.T) {
	fixedTime := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	payload := map[string]interface{}{
		"id":             float64(1),
		"description":    "Fuel for generator",
		"amount":         "150.00",
	}

	evt := Event{
		Type:      "expense.created",
		Entity:    EntityTypeExpense,
		Payload:   payload,
		Timestamp: fixedTime,
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded Event
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, evt.Type, decoded.Type)
	assert.Equal(t, evt.Entity, decoded.Entity)
	assert.Equal(t, fixedTime.UTC(), decoded.Timestamp.UTC())

	decodedPayload, ok := decoded.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), decodedPayload["id"])
	assert.Equal(t, "Fuel for generator", decodedPayload["description"])
	assert.Equal(t, "150.00", decodedPayload["amount"])
}

func TestOrderEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":          float64(1),
		"orderAmount": "500.00",
	}

	t.Run("OrderCreated", func(t *testing.T) {
		evt := OrderCreated(payload)
		assert.Equal(t, "order.created", evt.Type)
		assert.Equal(t, EntityTypeOrder, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("OrderUpdated", func(t *testing.T) {
		evt := OrderUpdated(payload)
		assert.Equal(t, "order.updated", evt.Type)
		assert.Equal(t, EntityTypeOrder, evt.Entity)
	})

	t.Run("OrderDeleted", func(t *testing.T) {
		evt := OrderDeleted(payload)
		assert.Equal(t, "order.deleted", evt.Type)
		assert.Equal(t, EntityTypeOrder, evt.Entity)
	})

	t.Run("OrderDelivered", func(t *testing.T) {
		evt := OrderDelivered(payload)
		assert.Equal(t, "order.delivered", evt.Type)
		assert.Equal(t, EntityTypeOrder, evt.Entity)
	})
}

func TestPaymentEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":             float64(7),
		"amountReceived": "300.00",
	}

	t.Run("PaymentCreated", func(t *testing.T) {
		evt := PaymentCreated(payload)
		assert.Equal(t, "payment.created", evt.Type)
		assert.Equal(t, EntityTypePayment, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("PaymentUpdated", func(t *testing.T) {
		evt := PaymentUpdated(payload)
		assert.Equal(t, "payment.updated", evt.Type)
		assert.Equal(t, EntityTypePayment, evt.Entity)
	})

	t.Run("PaymentDeleted", func(t *testing.T) {
		evt := PaymentDeleted(payload)
		assert.Equal(t, "payment.deleted", evt.Type)
		assert.Equal(t, EntityTypePayment, evt.Entity)
	})
}

func TestClientAndExpenseEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{"id": float64(3)}

	t.Run("ClientCreated", func(t *testing.T) {
		evt := ClientCreated(payload)
		assert.Equal(t, "client.created", evt.Type)
		assert.Equal(t, EntityTypeClient, evt.Entity)
	})

	t.Run("ClientUpdated", func(t *testing.T) {
		evt := ClientUpdated(payload)
		assert.Equal(t, "client.updated", evt.Type)
	})

	t.Run("ClientDeleted", func(t *testing.T) {
		evt := ClientDeleted(payload)
		assert.Equal(t, "client.deleted", evt.Type)
	})

	t.Run("ExpenseCreated", func(t *testing.T) {
		evt := ExpenseCreated(payload)
		assert.Equal(t, "expense.created", evt.Type)
		assert.Equal(t, EntityTypeExpense, evt.Entity)
	})

	t.Run("ExpenseUpdated", func(t *testing.T) {
		evt := ExpenseUpdated(payload)
		assert.Equal(t, "expense.updated", evt.Type)
	})

	t.Run("ExpenseDeleted", func(t *testing.T) {
		evt := ExpenseDeleted(payload)
		assert.Equal(t, "expense.deleted", evt.Type)
	})
}
