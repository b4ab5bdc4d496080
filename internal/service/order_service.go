package service

import (
	"time"

	"github.com/karobar/karobar-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// OrderService handles work-order business logic
type OrderService struct {
	orderRepo  domain.OrderRepository
	clientRepo domain.ClientRepository
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo domain.OrderRepository, clientRepo domain.ClientRepository) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		clientRepo: clientRepo,
	}
}

// CreateOrderInput holds the input for creating an order. The work-order sheet
// fields are pass-through; only amount, date and client are validated.
type CreateOrderInput struct {
	ClientID    int32
	OrderName   *string
	OrderDate   time.Time
	OrderAmount decimal.Decimal

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

// CreateOrder creates a new order in Pending status
func (s *OrderService) CreateOrder(input CreateOrderInput) (*domain.Order, error) {
	if input.OrderAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := s.clientRepo.GetByID(input.ClientID); err != nil {
		return nil, err
	}

	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	uom := trimPtr(input.UOM)
	if uom == nil {
		defaultUOM := domain.DefaultUOM
		uom = &defaultUOM
	}

	order := &domain.Order{
		ClientID:    input.ClientID,
		OrderName:   trimPtr(input.OrderName),
		OrderDate:   input.OrderDate,
		OrderAmount: input.OrderAmount,
		Status:      domain.OrderStatusPending,

		Size:         trimPtr(input.Size),
		UOM:          uom,
		Quantity:     quantity,
		MaterialNo:   trimPtr(input.MaterialNo),
		CostingLayer: trimPtr(input.CostingLayer),
		Color:        trimPtr(input.Color),

		MaterialSpec:   trimPtr(input.MaterialSpec),
		PaintSpec:      trimPtr(input.PaintSpec),
		QualitySpec:    trimPtr(input.QualitySpec),
		WorkNatureSpec: trimPtr(input.WorkNatureSpec),
		DurabilitySpec: trimPtr(input.DurabilitySpec),

		ModelingLastDate: input.ModelingLastDate,
		FiberStartDate:   input.FiberStartDate,

		OrderBy:    trimPtr(input.OrderBy),
		ModelingBy: trimPtr(input.ModelingBy),
		FiberBy:    trimPtr(input.FiberBy),

		ImagePath: input.ImagePath,
	}

	return s.orderRepo.Create(order)
}

// UpdateOrderInput holds the input for updating an order
type UpdateOrderInput struct {
	OrderName     *string
	OrderDate     time.Time
	DeliveredDate *time.Time
	OrderAmount   decimal.Decimal
	Status        domain.OrderStatus

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

// UpdateOrder overwrites an order's mutable fields
func (s *OrderService) UpdateOrder(id int32, input UpdateOrderInput) (*domain.Order, error) {
	if input.OrderAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	status := input.Status
	if status != domain.OrderStatusPending && status != domain.OrderStatusDelivered {
		status = domain.OrderStatusPending
	}

	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	return s.orderRepo.Update(id, &domain.UpdateOrderData{
		OrderName:     trimPtr(input.OrderName),
		OrderDate:     input.OrderDate,
		DeliveredDate: input.DeliveredDate,
		OrderAmount:   input.OrderAmount,
		Status:        status,

		Size:         trimPtr(input.Size),
		UOM:          trimPtr(input.UOM),
		Quantity:     quantity,
		MaterialNo:   trimPtr(input.MaterialNo),
		CostingLayer: trimPtr(input.CostingLayer),
		Color:        trimPtr(input.Color),

		MaterialSpec:   trimPtr(input.MaterialSpec),
		PaintSpec:      trimPtr(input.PaintSpec),
		QualitySpec:    trimPtr(input.QualitySpec),
		WorkNatureSpec: trimPtr(input.WorkNatureSpec),
		DurabilitySpec: trimPtr(input.DurabilitySpec),

		ModelingLastDate: input.ModelingLastDate,
		FiberStartDate:   input.FiberStartDate,

		OrderBy:    trimPtr(input.OrderBy),
		ModelingBy: trimPtr(input.ModelingBy),
		FiberBy:    trimPtr(input.FiberBy),

		ImagePath: input.ImagePath,
	})
}

// DeleteOrder hard-deletes an order. Payments that funded it survive with
// their order reference cleared.
func (s *OrderService) DeleteOrder(id int32) error {
	return s.orderRepo.Delete(id)
}

// GetOrderByID retrieves an order by ID
func (s *OrderService) GetOrderByID(id int32) (*domain.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetOrders retrieves all orders
func (s *OrderService) GetOrders() ([]*domain.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrdersByClient retrieves a client's orders
func (s *OrderService) GetOrdersByClient(clientID int32) ([]*domain.Order, error) {
	return s.orderRepo.GetByClient(clientID)
}

// MarkDelivered stamps the delivered date and flips status to Delivered.
// The transition is terminal; delivered orders cannot be unmarked.
func (s *OrderService) MarkDelivered(id int32, deliveredDate time.Time) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.Status == domain.OrderStatusDelivered {
		return nil, domain.ErrOrderAlreadyDelivered
	}
	return s.orderRepo.MarkDelivered(id, deliveredDate)
}

// GetTotalPendingOrderAmount sums the amounts of all Pending orders
func (s *OrderService) GetTotalPendingOrderAmount() (decimal.Decimal, error) {
	return s.orderRepo.SumAmountByStatus(domain.OrderStatusPending)
}
