package service

import (
	"errors"
	"testing"
	"time"

	"github.com/karobar/karobar-backend/internal/domain"
	"github.com/karobar/karobar-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestCreateOrder_Defaults(t *testing.T) {
	clientRepo, orderRepo, _, _ := testutil.NewMockRepositories()
	clientService := NewClientService(clientRepo)
	orderService := NewOrderService(orderRepo, clientRepo)

	client, err := clientService.CreateClient(CreateClientInput{Name: "Acme Traders"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	order, err := orderService.CreateOrder(CreateOrderInput{
		ClientID:    client.ID,
		OrderName:   strPtr("Garden bench"),
		OrderDate:   date(2026, time.March, 1),
		OrderAmount: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if order.Status != domain.OrderStatusPending {
		t.Errorf("Expected new order to be Pending, got %s", order.Status)
	}
	if order.Quantity != 1 {
		t.Errorf("Expected default quantity 1, got %d", order.Quantity)
	}
	if order.UOM == nil || *order.UOM != domain.DefaultUOM {
		t.Errorf("Expected default UOM %q, got %v", domain.DefaultUOM, order.UOM)
	}
}

func TestCreateOrder_InvalidAmount(t *testing.T) {
	clientRepo, orderRepo, _, _ := testutil.NewMockRepositories()
	orderService := NewOrderService(orderRepo, clientRepo)

	_, err := orderService.CreateOrder(CreateOrderInput{
		ClientID:    1,
		OrderDate:   date(2026, time.March, 1),
		OrderAmount: decimal.Zero,
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateOrder_UnknownClient(t *testing.T) {
	clientRepo, orderRepo, _, _ := testutil.NewMockRepositories()
	orderService := NewOrderService(orderRepo, clientRepo)

	_, err := orderService.CreateOrder(CreateOrderInput{
		ClientID:    42,
		OrderDate:   date(2026, time.March, 1),
		OrderAmount: decimal.NewFromInt(500),
	})
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("Expected ErrClientNotFound, got %v", err)
	}
}

func TestMarkDelivered(t *testing.T) {
	clientRepo, orderRepo, _, _ := testutil.NewMockRepositories()
	clientService := NewClientService(clientRepo)
	orderService := NewOrderService(orderRepo, clientRepo)

	client, _ := clientService.CreateClient(CreateClientInput{Name: "Acme Traders"})
	order, err := orderService.CreateOrder(CreateOrderInput{
		ClientID:    client.ID,
		OrderDate:   date(2026, time.March, 1),
		OrderAmount: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	deliveredDate := date(2026, time.March, 20)
	delivered, err := orderService.MarkDelivered(order.ID, deliveredDate)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if delivered.Status != domain.OrderStatusDelivered {
		t.Errorf("Expected status Delivered, got %s", delivered.Status)
	}
	if delivered.DeliveredDate == nil || !delivered.DeliveredDate.Equal(deliveredDate) {
		t.Errorf("Expected delivered date %v, got %v", deliveredDate, delivered.DeliveredDate)
	}
}

func TestMarkDelivered_AlreadyDelivered(t *testing.T) {
	clientRepo, orderRepo, _, _ := testutil.NewMockRepositories()
	clientService := NewClientService(clientRepo)
	orderService := NewOrderService(orderRepo, clientRepo)

	client, _ := clientService.CreateClient(CreateClientInput{Name: "Acme Traders"})
	order, _ := orderService.CreateOrder(CreateOrderInput{
		ClientID:    client.ID,
		OrderDate:   date(2026, time.March, 1),
		OrderAmount: decimal.NewFromInt(1000),
	})

	if _, err := orderService.MarkDelivered(order.ID, date(2026, time.March, 20)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// The transition is terminal
	_, err := orderService.MarkDelivered(order.ID, date(2026, time.March, 21))
	if !errors.Is(err, domain.ErrOrderAlreadyDelivered) {
		t.Fatalf("Expected ErrOrderAlreadyDelivered, got %v", err)
	}
}

func TestDeleteOrder_DetachesPayments(t *testing.T) {
	clientRepo, orderRepo, paymentRepo, _ := testutil.NewMockRepositories()
	clientService := NewClientService(clientRepo)
	orderService := NewOrderService(orderRepo, clientRepo)
	paymentService := NewPaymentService(paymentRepo, orderRepo, clientRepo)

	client, _ := clientService.CreateClient(CreateClientInput{Name: "Acme Traders"})
	order, _ := orderService.CreateOrder(CreateOrderInput{
		ClientID:    client.ID,
		OrderDate:   date(2026, time.March, 1),
		OrderAmount: decimal.NewFromInt(1000),
	})

	payment, err := paymentService.CreatePayment(CreatePaymentInput{
		ClientID:       client.ID,
		OrderID:        &order.ID,
		AmountReceived: decimal.NewFromInt(400),
		PaymentDate:    date(2026, time.March, 5),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := orderService.DeleteOrder(order.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// The payment survives with its order reference cleared
	got, err := paymentRepo.GetByID(payment.ID)
	if err != nil {
		t.Fatalf("Expected payment to survive order deletion, got %v", err)
	}
	if got.OrderID != nil {
		t.Errorf("Expected order reference cleared, got %v", *got.OrderID)
	}
}

func TestGetTotalPendingOrderAmount(t *testing.T) {
	clientRepo, orderRepo, _, _ := testutil.NewMockRepositories()
	clientService := NewClientService(clientRepo)
	orderService := NewOrderService(orderRepo, clientRepo)

	client, _ := clientService.CreateClient(CreateClientInput{Name: "Acme Traders"})

	first, _ := orderService.CreateOrder(CreateOrderInput{
		ClientID:    client.ID,
		OrderDate:   date(2026, time.March, 1),
		OrderAmount: decimal.NewFromInt(1000),
	})
	orderService.CreateOrder(CreateOrderInput{
		ClientID:    client.ID,
		OrderDate:   date(2026, time.March, 2),
		OrderAmount: decimal.NewFromInt(250),
	})

	if _, err := orderService.MarkDelivered(first.ID, date(2026, time.March, 10)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	total, err := orderService.GetTotalPendingOrderAmount()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !total.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected pending total 250, got %s", total.String())
	}
}
