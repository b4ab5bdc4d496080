package service

import (
	"errors"
	"testing"
	"time"

	"github.com/karobar/karobar-backend/internal/domain"
	"github.com/karobar/karobar-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newPaymentFixture(t *testing.T) (*ClientService, *OrderService, *PaymentService, int32, int32) {
	t.Helper()

	clientRepo, orderRepo, paymentRepo, _ := testutil.NewMockRepositories()
	clientService := NewClientService(clientRepo)
	orderService := NewOrderService(orderRepo, clientRepo)
	paymentService := NewPaymentService(paymentRepo, orderRepo, clientRepo)

	client, err := clientService.CreateClient(CreateClientInput{Name: "Acme Traders"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	order, err := orderService.CreateOrder(CreateOrderInput{
		ClientID:    client.ID,
		OrderDate:   date(2026, time.March, 1),
		OrderAmount: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	return clientService, orderService, paymentService, client.ID, order.ID
}

func TestCreatePayment_WithinBalance(t *testing.T) {
	_, _, paymentService, clientID, orderID := newPaymentFixture(t)

	if _, err := paymentService.CreatePayment(CreatePaymentInput{
		ClientID:       clientID,
		OrderID:        &orderID,
		AmountReceived: decimal.NewFromInt(700),
		PaymentDate:    date(2026, time.March, 5),
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// 700 + 300 lands exactly on the order amount
	if _, err := paymentService.CreatePayment(CreatePaymentInput{
		ClientID:       clientID,
		OrderID:        &orderID,
		AmountReceived: decimal.NewFromInt(300),
		PaymentDate:    date(2026, time.March, 10),
	}); err != nil {
		t.Fatalf("Expected exact payoff to be accepted, got %v", err)
	}
}

func TestCreatePayment_ExceedsBalance(t *testing.T) {
	_, _, paymentService, clientID, orderID := newPaymentFixture(t)

	if _, err := paymentService.CreatePayment(CreatePaymentInput{
		ClientID:       clientID,
		OrderID:        &orderID,
		AmountReceived: decimal.NewFromInt(700),
		PaymentDate:    date(2026, time.March, 5),
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// 700 + 300.01 exceeds the 1000 order amount by a cent
	_, err := paymentService.CreatePayment(CreatePaymentInput{
		ClientID:       clientID,
		OrderID:        &orderID,
		AmountReceived: decimal.RequireFromString("300.01"),
		PaymentDate:    date(2026, time.March, 10),
	})
	if !errors.Is(err, domain.ErrExceedsOrderBalance) {
		t.Fatalf("Expected ErrExceedsOrderBalance, got %v", err)
	}

	var balanceErr *domain.OrderBalanceError
	if !errors.As(err, &balanceErr) {
		t.Fatalf("Expected *OrderBalanceError, got %T", err)
	}
	if !balanceErr.Remaining().Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected remaining 300, got %s", balanceErr.Remaining().String())
	}
}

func TestCreatePayment_AdvanceAlwaysAccepted(t *testing.T) {
	_, _, paymentService, clientID, _ := newPaymentFixture(t)

	// Unattached payments are advances and bypass the balance guard
	payment, err := paymentService.CreatePayment(CreatePaymentInput{
		ClientID:       clientID,
		AmountReceived: decimal.NewFromInt(5000),
		PaymentDate:    date(2026, time.March, 5),
	})
	if err != nil {
		t.Fatalf("Expected advance to be accepted, got %v", err)
	}
	if payment.OrderName != "Advance" {
		t.Errorf("Expected order name 'Advance', got %q", payment.OrderName)
	}
}

func TestCreatePayment_InvalidAmount(t *testing.T) {
	_, _, paymentService, clientID, _ := newPaymentFixture(t)

	_, err := paymentService.CreatePayment(CreatePaymentInput{
		ClientID:       clientID,
		AmountReceived: decimal.Zero,
		PaymentDate:    date(2026, time.March, 5),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreatePayment_UnknownOrder(t *testing.T) {
	_, _, paymentService, clientID, _ := newPaymentFixture(t)

	_, err := paymentService.CreatePayment(CreatePaymentInput{
		ClientID:       clientID,
		OrderID:        int32Ptr(99),
		AmountReceived: decimal.NewFromInt(100),
		PaymentDate:    date(2026, time.March, 5),
	})
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("Expected ErrOrderNotFound, got %v", err)
	}
}

func TestUpdatePayment_ExcludesOwnPriorAmount(t *testing.T) {
	_, _, paymentService, clientID, orderID := newPaymentFixture(t)

	payment, err := paymentService.CreatePayment(CreatePaymentInput{
		ClientID:       clientID,
		OrderID:        &orderID,
		AmountReceived: decimal.NewFromInt(700),
		PaymentDate:    date(2026, time.March, 5),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Raising the payment to the full order amount must succeed: the prior
	// 700 does not count against its own edit.
	updated, err := paymentService.UpdatePayment(payment.ID, UpdatePaymentInput{
		OrderID:        &orderID,
		AmountReceived: decimal.NewFromInt(1000),
		PaymentDate:    date(2026, time.March, 5),
	})
	if err != nil {
		t.Fatalf("Expected update to full amount to succeed, got %v", err)
	}
	if !updated.AmountReceived.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected amount 1000, got %s", updated.AmountReceived.String())
	}

	// But going past it is still rejected
	_, err = paymentService.UpdatePayment(payment.ID, UpdatePaymentInput{
		OrderID:        &orderID,
		AmountReceived: decimal.RequireFromString("1000.01"),
		PaymentDate:    date(2026, time.March, 5),
	})
	if !errors.Is(err, domain.ErrExceedsOrderBalance) {
		t.Fatalf("Expected ErrExceedsOrderBalance, got %v", err)
	}
}

func TestUpdatePayment_CountsSiblingPayments(t *testing.T) {
	_, _, paymentService, clientID, orderID := newPaymentFixture(t)

	if _, err := paymentService.CreatePayment(CreatePaymentInput{
		ClientID:       clientID,
		OrderID:        &orderID,
		AmountReceived: decimal.NewFromInt(600),
		PaymentDate:    date(2026, time.March, 5),
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	second, err := paymentService.CreatePayment(CreatePaymentInput{
		ClientID:       clientID,
		OrderID:        &orderID,
		AmountReceived: decimal.NewFromInt(100),
		PaymentDate:    date(2026, time.March, 10),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// 600 from the sibling + 500 proposed exceeds 1000
	_, err = paymentService.UpdatePayment(second.ID, UpdatePaymentInput{
		OrderID:        &orderID,
		AmountReceived: decimal.NewFromInt(500),
		PaymentDate:    date(2026, time.March, 10),
	})
	if !errors.Is(err, domain.ErrExceedsOrderBalance) {
		t.Fatalf("Expected ErrExceedsOrderBalance, got %v", err)
	}
}

func TestDeletePayment_NotFound(t *testing.T) {
	_, _, paymentService, _, _ := newPaymentFixture(t)

	err := paymentService.DeletePayment(99)
	if !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Fatalf("Expected ErrPaymentNotFound, got %v", err)
	}
}
