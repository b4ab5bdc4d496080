package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is money received from a client. A payment may be attached to one
// order, or left unattached as an advance. Payments survive the deletion of
// the order they funded; the store clears the reference instead.
type Payment struct {
	ID             int32           `json:"id"`
	ClientID       int32           `json:"clientId"`
	OrderID        *int32          `json:"orderId,omitempty"`
	AmountReceived decimal.Decimal `json:"amountReceived"`
	BankName       *string         `json:"bankName,omitempty"`
	PaymentDate    time.Time       `json:"paymentDate"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`

	// ClientName and OrderName are populated on reads that join the related
	// records. OrderName is "Advance" for unattached payments.
	ClientName string `json:"clientName,omitempty"`
	OrderName  string `json:"orderName,omitempty"`
}

// UpdatePaymentData holds the mutable fields of a payment for a full-record update.
type UpdatePaymentData struct {
	OrderID        *int32
	AmountReceived decimal.Decimal
	BankName       *string
	PaymentDate    time.Time
}

// PaymentRepository defines persistence operations for payments.
//
// Create and Update re-check the order balance inside the same transaction as
// the write, so the no-overpayment invariant holds even if a competing write
// slipped in after the service-level check. Violations surface as
// *OrderBalanceError.
type PaymentRepository interface {
	Create(payment *Payment) (*Payment, error)
	GetByID(id int32) (*Payment, error)
	GetAll() ([]*Payment, error)
	GetByClient(clientID int32) ([]*Payment, error)
	GetByOrder(orderID int32) ([]*Payment, error)
	// GetByDateRange returns payments whose payment date falls in [start, end],
	// ordered by payment date ascending. Nil bounds mean all time.
	GetByDateRange(start, end *time.Time) ([]*Payment, error)
	Update(id int32, data *UpdatePaymentData) (*Payment, error)
	Delete(id int32) error
	// SumByOrder sums payments attached to the order, excluding the payment
	// identified by excludePaymentID when non-nil.
	SumByOrder(orderID int32, excludePaymentID *int32) (decimal.Decimal, error)
	// SumByOrders sums payments attached to any of the given orders,
	// regardless of payment date.
	SumByOrders(orderIDs []int32) (decimal.Decimal, error)
	// SumByDateRange sums payments dated within [start, end]. Nil bounds mean all time.
	SumByDateRange(start, end *time.Time) (decimal.Decimal, error)
}
