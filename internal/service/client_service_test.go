package service

import (
	"errors"
	"testing"
	"time"

	"github.com/karobar/karobar-backend/internal/domain"
	"github.com/karobar/karobar-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func int32Ptr(i int32) *int32 { return &i }

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestCreateClient_Success(t *testing.T) {
	clientRepo, _, _, _ := testutil.NewMockRepositories()
	clientService := NewClientService(clientRepo)

	client, err := clientService.CreateClient(CreateClientInput{
		Name:  "  Acme Traders  ",
		Phone: strPtr("0771234567"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if client.Name != "Acme Traders" {
		t.Errorf("Expected trimmed name 'Acme Traders', got %q", client.Name)
	}
	if !client.IsActive {
		t.Error("Expected new client to be active")
	}
}

func TestCreateClient_EmptyName(t *testing.T) {
	clientRepo, _, _, _ := testutil.NewMockRepositories()
	clientService := NewClientService(clientRepo)

	_, err := clientService.CreateClient(CreateClientInput{Name: "   "})
	if !errors.Is(err, domain.ErrNameRequired) {
		t.Fatalf("Expected ErrNameRequired, got %v", err)
	}
}

func TestCreateClient_DuplicateActiveName(t *testing.T) {
	clientRepo, _, _, _ := testutil.NewMockRepositories()
	clientService := NewClientService(clientRepo)

	if _, err := clientService.CreateClient(CreateClientInput{Name: "Acme Traders"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Case-insensitive collision with the active client
	_, err := clientService.CreateClient(CreateClientInput{Name: "acme traders"})
	if !errors.Is(err, domain.ErrClientNameTaken) {
		t.Fatalf("Expected ErrClientNameTaken, got %v", err)
	}
}

func TestCreateClient_NameFreedBySoftDelete(t *testing.T) {
	clientRepo, _, _, _ := testutil.NewMockRepositories()
	clientService := NewClientService(clientRepo)

	first, err := clientService.CreateClient(CreateClientInput{Name: "Acme Traders"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := clientService.DeleteClient(first.ID); err != nil {
		t.Fatalf("Expected no error on delete, got %v", err)
	}

	// The soft-deleted client no longer blocks the name
	if _, err := clientService.CreateClient(CreateClientInput{Name: "Acme Traders"}); err != nil {
		t.Fatalf("Expected name to be reusable after soft delete, got %v", err)
	}
}

func TestDeleteClient_SoftDeleteKeepsRecord(t *testing.T) {
	clientRepo, _, _, _ := testutil.NewMockRepositories()
	clientService := NewClientService(clientRepo)

	client, err := clientService.CreateClient(CreateClientInput{Name: "Acme Traders"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := clientService.DeleteClient(client.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, err := clientService.GetClientByID(client.ID)
	if err != nil {
		t.Fatalf("Expected soft-deleted client to remain readable, got %v", err)
	}
	if got.IsActive {
		t.Error("Expected client to be inactive after delete")
	}

	active, err := clientService.GetClients(true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(active) != 0 {
		t.Errorf("Expected no active clients, got %d", len(active))
	}
}

func TestGetOutstandingAmount(t *testing.T) {
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

	if _, err := paymentService.CreatePayment(CreatePaymentInput{
		ClientID:       client.ID,
		OrderID:        &order.ID,
		AmountReceived: decimal.NewFromInt(400),
		PaymentDate:    date(2026, time.March, 5),
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	outstanding, err := clientService.GetOutstandingAmount(client.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !outstanding.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected outstanding 600, got %s", outstanding.String())
	}
}

func TestGetOutstandingAmount_NoRecords(t *testing.T) {
	clientRepo, _, _, _ := testutil.NewMockRepositories()
	clientService := NewClientService(clientRepo)

	client, err := clientService.CreateClient(CreateClientInput{Name: "Acme Traders"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	outstanding, err := clientService.GetOutstandingAmount(client.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !outstanding.IsZero() {
		t.Errorf("Expected zero outstanding, got %s", outstanding.String())
	}
}

func TestGetOutstandingAmount_UnknownClient(t *testing.T) {
	clientRepo, _, _, _ := testutil.NewMockRepositories()
	clientService := NewClientService(clientRepo)

	_, err := clientService.GetOutstandingAmount(99)
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("Expected ErrClientNotFound, got %v", err)
	}
}
