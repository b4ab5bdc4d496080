package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrClientNotFound       = errors.New("client not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrNameRequired         = errors.New("name is required")
	ErrNameTooLong          = errors.New("name exceeds maximum length")
	ErrDescriptionRequired  = errors.New("description is required")
	ErrClientNameTaken      = errors.New("an active client with this name already exists")
	ErrExceedsOrderBalance  = errors.New("payment exceeds remaining order balance")
	ErrOrderAlreadyDelivered = errors.New("order is already delivered")
	ErrInternalError        = errors.New("internal error")
)

// Validation constants
const (
	MaxClientNameLength  = 255
	MaxDescriptionLength = 500
)

// OrderBalanceError reports an attempted overpayment against an order. It carries
// the figures the caller needs to explain the rejection to an end user.
type OrderBalanceError struct {
	OrderID         int32
	OrderAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	AttemptedAmount decimal.Decimal
}

func (e *OrderBalanceError) Error() string {
	return fmt.Sprintf("payment exceeds remaining order balance (order total: %s, paid: %s, attempted: %s)",
		e.OrderAmount.StringFixed(2), e.PaidAmount.StringFixed(2), e.AttemptedAmount.StringFixed(2))
}

// Is allows errors.Is(err, ErrExceedsOrderBalance) to match.
func (e *OrderBalanceError) Is(target error) bool {
	return target == ErrExceedsOrderBalance
}

// Remaining returns the balance still payable on the order.
func (e *OrderBalanceError) Remaining() decimal.Decimal {
	return e.OrderAmount.Sub(e.PaidAmount)
}
