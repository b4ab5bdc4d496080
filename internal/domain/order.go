package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusDelivered OrderStatus = "Delivered"
)

// DefaultUOM is applied when no unit of measure is given on create.
const DefaultUOM = "Nos"

// Order is a work order placed by a client. Beyond the monetary fields the
// order carries the full work-order sheet (sizes, specs, sign-offs); those are
// pass-through fields and take no part in balance reconciliation.
type Order struct {
	ID            int32           `json:"id"`
	ClientID      int32           `json:"clientId"`
	OrderName     *string         `json:"orderName,omitempty"`
	OrderDate     time.Time       `json:"orderDate"`
	DeliveredDate *time.Time      `json:"deliveredDate,omitempty"`
	OrderAmount   decimal.Decimal `json:"orderAmount"`
	Status        OrderStatus     `json:"status"`

	// Work order sheet
	Size         *string `json:"size,omitempty"`
	UOM          *string `json:"uom,omitempty"`
	Quantity     int32   `json:"quantity"`
	MaterialNo   *string `json:"materialNo,omitempty"`
	CostingLayer *string `json:"costingLayer,omitempty"`
	Color        *string `json:"color,omitempty"`

	// Production specs
	MaterialSpec   *string `json:"materialSpec,omitempty"`
	PaintSpec      *string `json:"paintSpec,omitempty"`
	QualitySpec    *string `json:"qualitySpec,omitempty"`
	WorkNatureSpec *string `json:"workNatureSpec,omitempty"`
	DurabilitySpec *string `json:"durabilitySpec,omitempty"`

	// Milestone dates
	ModelingLastDate *time.Time `json:"modelingLastDate,omitempty"`
	FiberStartDate   *time.Time `json:"fiberStartDate,omitempty"`

	// Sign-offs
	OrderBy    *string `json:"orderBy,omitempty"`
	ModelingBy *string `json:"modelingBy,omitempty"`
	FiberBy    *string `json:"fiberBy,omitempty"`

	ImagePath *string `json:"imagePath,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`

	// ClientName is populated on reads that join the owning client.
	ClientName string `json:"clientName,omitempty"`
}

// UpdateOrderData holds the mutable fields of an order for a full-record update.
// The identifier, owning client and creation timestamp are never changed.
type UpdateOrderData struct {
	OrderName     *string
	OrderDate     time.Time
	DeliveredDate *time.Time
	OrderAmount   decimal.Decimal
	Status        OrderStatus

	Size         *string
	UOM          *string
	Quantity     int32
	MaterialNo   *string
	CostingLayer *string
	Color        *string

	MaterialSpec   *string
	PaintSpec      *string
	QualitySpec    *string
	WorkNatureSpec *string
	DurabilitySpec *string

	ModelingLastDate *time.Time
	FiberStartDate   *time.Time

	OrderBy    *string
	ModelingBy *string
	FiberBy    *string

	ImagePath *string
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(order *Order) (*Order, error)
	GetByID(id int32) (*Order, error)
	GetAll() ([]*Order, error)
	GetByClient(clientID int32) ([]*Order, error)
	// GetByDateRange returns orders whose order date falls in [start, end],
	// ordered by order date ascending. Nil bounds mean all time.
	GetByDateRange(start, end *time.Time) ([]*Order, error)
	Update(id int32, data *UpdateOrderData) (*Order, error)
	// Delete hard-deletes the order and clears the order reference on any
	// payment that pointed at it, in a single transaction.
	Delete(id int32) error
	MarkDelivered(id int32, deliveredDate time.Time) (*Order, error)
	// SumAmountByStatus sums order amounts for orders in the given status.
	SumAmountByStatus(status OrderStatus) (decimal.Decimal, error)
}
