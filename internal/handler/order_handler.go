package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/karobar/karobar-backend/internal/domain"
	"github.com/karobar/karobar-backend/internal/service"
	"github.com/karobar/karobar-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// dateLayout is the wire format for date-only fields
const dateLayout = "2006-01-02"

// OrderHandler handles work-order HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	publisher    websocket.EventPublisher
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *service.OrderService, publisher websocket.EventPublisher) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		publisher:    publisher,
	}
}

// OrderSheetFields carries the descriptive work-order sheet fields shared by
// the create and update request bodies.
type OrderSheetFields struct {
	Size         *string `json:"size,omitempty"`
	UOM          *string `json:"uom,omitempty"`
	Quantity     int32   `json:"quantity,omitempty"`
	MaterialNo   *string `json:"materialNo,omitempty"`
	CostingLayer *string `json:"costingLayer,omitempty"`
	Color        *string `json:"color,omitempty"`

	MaterialSpec   *string `json:"materialSpec,omitempty"`
	PaintSpec      *string `json:"paintSpec,omitempty"`
	QualitySpec    *string `json:"qualitySpec,omitempty"`
	WorkNatureSpec *string `json:"workNatureSpec,omitempty"`
	DurabilitySpec *string `json:"durabilitySpec,omitempty"`

	ModelingLastDate *string `json:"modelingLastDate,omitempty"`
	FiberStartDate   *string `json:"fiberStartDate,omitempty"`

	OrderBy    *string `json:"orderBy,omitempty"`
	ModelingBy *string `json:"modelingBy,omitempty"`
	FiberBy    *string `json:"fiberBy,omitempty"`

	ImagePath *string `json:"imagePath,omitempty"`
}

// CreateOrderRequest represents the create order request body
type CreateOrderRequest struct {
	ClientID    int32   `json:"clientId"`
	OrderName   *string `json:"orderName,omitempty"`
	OrderDate   string  `json:"orderDate"`
	OrderAmount string  `json:"orderAmount"`
	OrderSheetFields
}

// UpdateOrderRequest represents the update order request body
type UpdateOrderRequest struct {
	OrderName     *string `json:"orderName,omitempty"`
	OrderDate     string  `json:"orderDate"`
	DeliveredDate *string `json:"deliveredDate,omitempty"`
	OrderAmount   string  `json:"orderAmount"`
	Status        string  `json:"status"`
	OrderSheetFields
}

// DeliverOrderRequest represents the mark-delivered request body
type DeliverOrderRequest struct {
	DeliveredDate string `json:"deliveredDate,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            int32   `json:"id"`
	ClientID      int32   `json:"clientId"`
	ClientName    string  `json:"clientName,omitempty"`
	OrderName     *string `json:"orderName,omitempty"`
	OrderDate     string  `json:"orderDate"`
	DeliveredDate *string `json:"deliveredDate,omitempty"`
	OrderAmount   string  `json:"orderAmount"`
	Status        string  `json:"status"`

	Size         *string `json:"size,omitempty"`
	UOM          *string `json:"uom,omitempty"`
	Quantity     int32   `json:"quantity"`
	MaterialNo   *string `json:"materialNo,omitempty"`
	CostingLayer *string `json:"costingLayer,omitempty"`
	Color        *string `json:"color,omitempty"`

	MaterialSpec   *string `json:"materialSpec,omitempty"`
	PaintSpec      *string `json:"paintSpec,omitempty"`
	QualitySpec    *string `json:"qualitySpec,omitempty"`
	WorkNatureSpec *string `json:"workNatureSpec,omitempty"`
	DurabilitySpec *string `json:"durabilitySpec,omitempty"`

	ModelingLastDate *string `json:"modelingLastDate,omitempty"`
	FiberStartDate   *string `json:"fiberStartDate,omitempty"`

	OrderBy    *string `json:"orderBy,omitempty"`
	ModelingBy *string `json:"modelingBy,omitempty"`
	FiberBy    *string `json:"fiberBy,omitempty"`

	ImagePath *string `json:"imagePath,omitempty"`

	CreatedAt string  `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt,omitempty"`
}

// CreateOrder handles POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	orderDate, err := parseDate(req.OrderDate)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "orderDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	amount, err := decimal.NewFromString(req.OrderAmount)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "orderAmount", Message: "Must be a valid decimal number"},
		})
	}

	modelingLastDate, fiberStartDate, vErr := parseSheetDates(req.OrderSheetFields)
	if vErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*vErr})
	}

	order, err := h.orderService.CreateOrder(service.CreateOrderInput{
		ClientID:    req.ClientID,
		OrderName:   req.OrderName,
		OrderDate:   orderDate,
		OrderAmount: amount,

		Size:         req.Size,
		UOM:          req.UOM,
		Quantity:     req.Quantity,
		MaterialNo:   req.MaterialNo,
		CostingLayer: req.CostingLayer,
		Color:        req.Color,

		MaterialSpec:   req.MaterialSpec,
		PaintSpec:      req.PaintSpec,
		QualitySpec:    req.QualitySpec,
		WorkNatureSpec: req.WorkNatureSpec,
		DurabilitySpec: req.DurabilitySpec,

		ModelingLastDate: modelingLastDate,
		FiberStartDate:   fiberStartDate,

		OrderBy:    req.OrderBy,
		ModelingBy: req.ModelingBy,
		FiberBy:    req.FiberBy,

		ImagePath: req.ImagePath,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "orderAmount", Message: "Amount must be greater than zero"},
			})
		}
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Int32("client_id", req.ClientID).Msg("Failed to create order")
		return NewInternalError(c, "Failed to create order")
	}

	log.Info().Int32("order_id", order.ID).Int32("client_id", order.ClientID).Str("amount", order.OrderAmount.StringFixed(2)).Msg("Order created")
	h.publisher.Publish(websocket.OrderCreated(toOrderResponse(order)))

	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// GetOrders handles GET /api/v1/orders
func (h *OrderHandler) GetOrders(c echo.Context) error {
	if clientIDParam := c.QueryParam("clientId"); clientIDParam != "" {
		clientID, err := strconv.Atoi(clientIDParam)
		if err != nil {
			return NewValidationError(c, "Invalid client ID", nil)
		}
		orders, err := h.orderService.GetOrdersByClient(int32(clientID))
		if err != nil {
			log.Error().Err(err).Int("client_id", clientID).Msg("Failed to get orders")
			return NewInternalError(c, "Failed to get orders")
		}
		return c.JSON(http.StatusOK, toOrderResponses(orders))
	}

	orders, err := h.orderService.GetOrders()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get orders")
		return NewInternalError(c, "Failed to get orders")
	}
	return c.JSON(http.StatusOK, toOrderResponses(orders))
}

// GetOrder handles GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid order ID", nil)
	}

	order, err := h.orderService.GetOrderByID(int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return NewNotFoundError(c, "Order not found")
		}
		log.Error().Err(err).Int("order_id", id).Msg("Failed to get order")
		return NewInternalError(c, "Failed to get order")
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdateOrder handles PUT /api/v1/orders/:id
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid order ID", nil)
	}

	var req UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	orderDate, err := parseDate(req.OrderDate)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "orderDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	var deliveredDate *time.Time
	if req.DeliveredDate != nil && *req.DeliveredDate != "" {
		d, err := parseDate(*req.DeliveredDate)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "deliveredDate", Message: "Must be a date in YYYY-MM-DD format"},
			})
		}
		deliveredDate = &d
	}

	amount, err := decimal.NewFromString(req.OrderAmount)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "orderAmount", Message: "Must be a valid decimal number"},
		})
	}

	modelingLastDate, fiberStartDate, vErr := parseSheetDates(req.OrderSheetFields)
	if vErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*vErr})
	}

	order, err := h.orderService.UpdateOrder(int32(id), service.UpdateOrderInput{
		OrderName:     req.OrderName,
		OrderDate:     orderDate,
		DeliveredDate: deliveredDate,
		OrderAmount:   amount,
		Status:        domain.OrderStatus(req.Status),

		Size:         req.Size,
		UOM:          req.UOM,
		Quantity:     req.Quantity,
		MaterialNo:   req.MaterialNo,
		CostingLayer: req.CostingLayer,
		Color:        req.Color,

		MaterialSpec:   req.MaterialSpec,
		PaintSpec:      req.PaintSpec,
		QualitySpec:    req.QualitySpec,
		WorkNatureSpec: req.WorkNatureSpec,
		DurabilitySpec: req.DurabilitySpec,

		ModelingLastDate: modelingLastDate,
		FiberStartDate:   fiberStartDate,

		OrderBy:    req.OrderBy,
		ModelingBy: req.ModelingBy,
		FiberBy:    req.FiberBy,

		ImagePath: req.ImagePath,
	})
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return NewNotFoundError(c, "Order not found")
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "orderAmount", Message: "Amount must be greater than zero"},
			})
		}
		log.Error().Err(err).Int("order_id", id).Msg("Failed to update order")
		return NewInternalError(c, "Failed to update order")
	}

	log.Info().Int32("order_id", order.ID).Msg("Order updated")
	h.publisher.Publish(websocket.OrderUpdated(toOrderResponse(order)))

	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// DeleteOrder handles DELETE /api/v1/orders/:id
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid order ID", nil)
	}

	if err := h.orderService.DeleteOrder(int32(id)); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return NewNotFoundError(c, "Order not found")
		}
		log.Error().Err(err).Int("order_id", id).Msg("Failed to delete order")
		return NewInternalError(c, "Failed to delete order")
	}

	log.Info().Int("order_id", id).Msg("Order deleted")
	h.publisher.Publish(websocket.OrderDeleted(map[string]int{"id": id}))

	return c.NoContent(http.StatusNoContent)
}

// GetClientOrders handles GET /api/v1/clients/:id/orders
func (h *OrderHandler) GetClientOrders(c echo.Context) error {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	orders, err := h.orderService.GetOrdersByClient(int32(clientID))
	if err != nil {
		log.Error().Err(err).Int("client_id", clientID).Msg("Failed to get orders")
		return NewInternalError(c, "Failed to get orders")
	}
	return c.JSON(http.StatusOK, toOrderResponses(orders))
}

// PendingTotalResponse carries the total amount of undelivered orders.
type PendingTotalResponse struct {
	TotalPendingAmount string `json:"totalPendingAmount"`
}

// GetPendingTotal handles GET /api/v1/orders/pending-total
func (h *OrderHandler) GetPendingTotal(c echo.Context) error {
	total, err := h.orderService.GetTotalPendingOrderAmount()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get pending order total")
		return NewInternalError(c, "Failed to get pending order total")
	}
	return c.JSON(http.StatusOK, PendingTotalResponse{TotalPendingAmount: total.StringFixed(2)})
}

// DeliverOrder handles PATCH /api/v1/orders/:id/deliver
func (h *OrderHandler) DeliverOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid order ID", nil)
	}

	var req DeliverOrderRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	deliveredDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.DeliveredDate != "" {
		deliveredDate, err = parseDate(req.DeliveredDate)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "deliveredDate", Message: "Must be a date in YYYY-MM-DD format"},
			})
		}
	}

	order, err := h.orderService.MarkDelivered(int32(id), deliveredDate)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return NewNotFoundError(c, "Order not found")
		}
		if errors.Is(err, domain.ErrOrderAlreadyDelivered) {
			return NewConflictError(c, "Order is already delivered")
		}
		log.Error().Err(err).Int("order_id", id).Msg("Failed to mark order delivered")
		return NewInternalError(c, "Failed to mark order delivered")
	}

	log.Info().Int32("order_id", order.ID).Msg("Order marked delivered")
	h.publisher.Publish(websocket.OrderDelivered(toOrderResponse(order)))

	return c.JSON(http.StatusOK, toOrderResponse(order))
}

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, value, time.UTC)
}

func parseSheetDates(sheet OrderSheetFields) (*time.Time, *time.Time, *ValidationError) {
	var modelingLastDate, fiberStartDate *time.Time
	if sheet.ModelingLastDate != nil && *sheet.ModelingLastDate != "" {
		d, err := parseDate(*sheet.ModelingLastDate)
		if err != nil {
			return nil, nil, &ValidationError{Field: "modelingLastDate", Message: "Must be a date in YYYY-MM-DD format"}
		}
		modelingLastDate = &d
	}
	if sheet.FiberStartDate != nil && *sheet.FiberStartDate != "" {
		d, err := parseDate(*sheet.FiberStartDate)
		if err != nil {
			return nil, nil, &ValidationError{Field: "fiberStartDate", Message: "Must be a date in YYYY-MM-DD format"}
		}
		fiberStartDate = &d
	}
	return modelingLastDate, fiberStartDate, nil
}

func toOrderResponses(orders []*domain.Order) []OrderResponse {
	response := make([]OrderResponse, len(orders))
	for i, order := range orders {
		response[i] = toOrderResponse(order)
	}
	return response
}

func toOrderResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:          order.ID,
		ClientID:    order.ClientID,
		ClientName:  order.ClientName,
		OrderName:   order.OrderName,
		OrderDate:   order.OrderDate.Format(dateLayout),
		OrderAmount: order.OrderAmount.StringFixed(2),
		Status:      string(order.Status),

		Size:         order.Size,
		UOM:          order.UOM,
		Quantity:     order.Quantity,
		MaterialNo:   order.MaterialNo,
		CostingLayer: order.CostingLayer,
		Color:        order.Color,

		MaterialSpec:   order.MaterialSpec,
		PaintSpec:      order.PaintSpec,
		QualitySpec:    order.QualitySpec,
		WorkNatureSpec: order.WorkNatureSpec,
		DurabilitySpec: order.DurabilitySpec,

		OrderBy:    order.OrderBy,
		ModelingBy: order.ModelingBy,
		FiberBy:    order.FiberBy,

		ImagePath: order.ImagePath,

		CreatedAt: order.CreatedAt.Format(time.RFC3339),
	}
	if order.DeliveredDate != nil {
		d := order.DeliveredDate.Format(dateLayout)
		resp.DeliveredDate = &d
	}
	if order.ModelingLastDate != nil {
		d := order.ModelingLastDate.Format(dateLayout)
		resp.ModelingLastDate = &d
	}
	if order.FiberStartDate != nil {
		d := order.FiberStartDate.Format(dateLayout)
		resp.FiberStartDate = &d
	}
	if order.UpdatedAt != nil {
		u := order.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &u
	}
	return resp
}
