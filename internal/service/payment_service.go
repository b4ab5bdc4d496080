package service

import (
	"time"

	"github.com/karobar/karobar-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// PaymentService handles payment business logic, including the
// no-overpayment guard for payments attached to an order.
type PaymentService struct {
	paymentRepo domain.PaymentRepository
	orderRepo   domain.OrderRepository
	clientRepo  domain.ClientRepository
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo domain.PaymentRepository, orderRepo domain.OrderRepository, clientRepo domain.ClientRepository) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		clientRepo:  clientRepo,
	}
}

// CreatePaymentInput holds the input for recording a payment. A nil OrderID
// records an advance not tied to any order.
type CreatePaymentInput struct {
	ClientID       int32
	OrderID        *int32
	AmountReceived decimal.Decimal
	BankName       *string
	PaymentDate    time.Time
}

// CreatePayment records a payment after validating it against the remaining
// balance of the order it funds. The store re-checks inside the insert
// transaction, so the invariant holds even under a competing write.
func (s *PaymentService) CreatePayment(input CreatePaymentInput) (*domain.Payment, error) {
	if input.AmountReceived.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := s.clientRepo.GetByID(input.ClientID); err != nil {
		return nil, err
	}

	if err := s.validateOrderBalance(input.OrderID, input.AmountReceived, nil); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ClientID:       input.ClientID,
		OrderID:        input.OrderID,
		AmountReceived: input.AmountReceived,
		BankName:       trimPtr(input.BankName),
		PaymentDate:    input.PaymentDate,
	}

	return s.paymentRepo.Create(payment)
}

// UpdatePaymentInput holds the input for updating a payment
type UpdatePaymentInput struct {
	OrderID        *int32
	AmountReceived decimal.Decimal
	BankName       *string
	PaymentDate    time.Time
}

// UpdatePayment overwrites a payment's mutable fields, re-validating the order
// balance with the payment's own prior amount excluded from the paid total.
func (s *PaymentService) UpdatePayment(id int32, input UpdatePaymentInput) (*domain.Payment, error) {
	if input.AmountReceived.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := s.paymentRepo.GetByID(id); err != nil {
		return nil, err
	}

	if err := s.validateOrderBalance(input.OrderID, input.AmountReceived, &id); err != nil {
		return nil, err
	}

	return s.paymentRepo.Update(id, &domain.UpdatePaymentData{
		OrderID:        input.OrderID,
		AmountReceived: input.AmountReceived,
		BankName:       trimPtr(input.BankName),
		PaymentDate:    input.PaymentDate,
	})
}

// DeletePayment hard-deletes a payment
func (s *PaymentService) DeletePayment(id int32) error {
	return s.paymentRepo.Delete(id)
}

// GetPayments retrieves all payments
func (s *PaymentService) GetPayments() ([]*domain.Payment, error) {
	return s.paymentRepo.GetAll()
}

// GetPaymentsByClient retrieves a client's payments
func (s *PaymentService) GetPaymentsByClient(clientID int32) ([]*domain.Payment, error) {
	return s.paymentRepo.GetByClient(clientID)
}

// GetPaymentsByOrder retrieves the payments attached to an order
func (s *PaymentService) GetPaymentsByOrder(orderID int32) ([]*domain.Payment, error) {
	return s.paymentRepo.GetByOrder(orderID)
}

// validateOrderBalance accepts unattached advances; for attached payments it
// fetches the order and rejects amounts that would push the paid total past
// the order amount. excludePaymentID removes a payment's own prior value from
// the paid sum when re-validating an edit.
func (s *PaymentService) validateOrderBalance(orderID *int32, amount decimal.Decimal, excludePaymentID *int32) error {
	if orderID == nil {
		return nil
	}

	order, err := s.orderRepo.GetByID(*orderID)
	if err != nil {
		return err
	}

	paid, err := s.paymentRepo.SumByOrder(*orderID, excludePaymentID)
	if err != nil {
		return err
	}

	if paid.Add(amount).GreaterThan(order.OrderAmount) {
		return &domain.OrderBalanceError{
			OrderID:         *orderID,
			OrderAmount:     order.OrderAmount,
			PaidAmount:      paid,
			AttemptedAmount: amount,
		}
	}
	return nil
}
