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

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
	publisher      websocket.EventPublisher
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *service.PaymentService, publisher websocket.EventPublisher) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		publisher:      publisher,
	}
}

// CreatePaymentRequest represents the create payment request body
type CreatePaymentRequest struct {
	ClientID       int32   `json:"clientId"`
	OrderID        *int32  `json:"orderId,omitempty"`
	AmountReceived string  `json:"amountReceived"`
	BankName       *string `json:"bankName,omitempty"`
	PaymentDate    string  `json:"paymentDate"`
}

// UpdatePaymentRequest represents the update payment request body
type UpdatePaymentRequest struct {
	OrderID        *int32  `json:"orderId,omitempty"`
	AmountReceived string  `json:"amountReceived"`
	BankName       *string `json:"bankName,omitempty"`
	PaymentDate    string  `json:"paymentDate"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID             int32   `json:"id"`
	ClientID       int32   `json:"clientId"`
	ClientName     string  `json:"clientName,omitempty"`
	OrderID        *int32  `json:"orderId,omitempty"`
	OrderName      string  `json:"orderName,omitempty"`
	AmountReceived string  `json:"amountReceived"`
	BankName       *string `json:"bankName,omitempty"`
	PaymentDate    string  `json:"paymentDate"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      *string `json:"updatedAt,omitempty"`
}

// CreatePayment handles POST /api/v1/payments
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "paymentDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	amount, err := decimal.NewFromString(req.AmountReceived)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amountReceived", Message: "Must be a valid decimal number"},
		})
	}

	payment, err := h.paymentService.CreatePayment(service.CreatePaymentInput{
		ClientID:       req.ClientID,
		OrderID:        req.OrderID,
		AmountReceived: amount,
		BankName:       req.BankName,
		PaymentDate:    paymentDate,
	})
	if err != nil {
		return h.mapPaymentError(c, err, "Failed to create payment")
	}

	log.Info().Int32("payment_id", payment.ID).Int32("client_id", payment.ClientID).Str("amount", payment.AmountReceived.StringFixed(2)).Msg("Payment recorded")
	h.publisher.Publish(websocket.PaymentCreated(toPaymentResponse(payment)))

	return c.JSON(http.StatusCreated, toPaymentResponse(payment))
}

// GetPayments handles GET /api/v1/payments
func (h *PaymentHandler) GetPayments(c echo.Context) error {
	if clientIDParam := c.QueryParam("clientId"); clientIDParam != "" {
		clientID, err := strconv.Atoi(clientIDParam)
		if err != nil {
			return NewValidationError(c, "Invalid client ID", nil)
		}
		payments, err := h.paymentService.GetPaymentsByClient(int32(clientID))
		if err != nil {
			log.Error().Err(err).Int("client_id", clientID).Msg("Failed to get payments")
			return NewInternalError(c, "Failed to get payments")
		}
		return c.JSON(http.StatusOK, toPaymentResponses(payments))
	}

	if orderIDParam := c.QueryParam("orderId"); orderIDParam != "" {
		orderID, err := strconv.Atoi(orderIDParam)
		if err != nil {
			return NewValidationError(c, "Invalid order ID", nil)
		}
		payments, err := h.paymentService.GetPaymentsByOrder(int32(orderID))
		if err != nil {
			log.Error().Err(err).Int("order_id", orderID).Msg("Failed to get payments")
			return NewInternalError(c, "Failed to get payments")
		}
		return c.JSON(http.StatusOK, toPaymentResponses(payments))
	}

	payments, err := h.paymentService.GetPayments()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get payments")
		return NewInternalError(c, "Failed to get payments")
	}
	return c.JSON(http.StatusOK, toPaymentResponses(payments))
}

// GetClientPayments handles GET /api/v1/clients/:id/payments
func (h *PaymentHandler) GetClientPayments(c echo.Context) error {
	clientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	payments, err := h.paymentService.GetPaymentsByClient(int32(clientID))
	if err != nil {
		log.Error().Err(err).Int("client_id", clientID).Msg("Failed to get payments")
		return NewInternalError(c, "Failed to get payments")
	}
	return c.JSON(http.StatusOK, toPaymentResponses(payments))
}

// GetOrderPayments handles GET /api/v1/orders/:id/payments
func (h *PaymentHandler) GetOrderPayments(c echo.Context) error {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid order ID", nil)
	}

	payments, err := h.paymentService.GetPaymentsByOrder(int32(orderID))
	if err != nil {
		log.Error().Err(err).Int("order_id", orderID).Msg("Failed to get payments")
		return NewInternalError(c, "Failed to get payments")
	}
	return c.JSON(http.StatusOK, toPaymentResponses(payments))
}

// UpdatePayment handles PUT /api/v1/payments/:id
func (h *PaymentHandler) UpdatePayment(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid payment ID", nil)
	}

	var req UpdatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "paymentDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	amount, err := decimal.NewFromString(req.AmountReceived)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amountReceived", Message: "Must be a valid decimal number"},
		})
	}

	payment, err := h.paymentService.UpdatePayment(int32(id), service.UpdatePaymentInput{
		OrderID:        req.OrderID,
		AmountReceived: amount,
		BankName:       req.BankName,
		PaymentDate:    paymentDate,
	})
	if err != nil {
		return h.mapPaymentError(c, err, "Failed to update payment")
	}

	log.Info().Int32("payment_id", payment.ID).Msg("Payment updated")
	h.publisher.Publish(websocket.PaymentUpdated(toPaymentResponse(payment)))

	return c.JSON(http.StatusOK, toPaymentResponse(payment))
}

// DeletePayment handles DELETE /api/v1/payments/:id
func (h *PaymentHandler) DeletePayment(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid payment ID", nil)
	}

	if err := h.paymentService.DeletePayment(int32(id)); err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			return NewNotFoundError(c, "Payment not found")
		}
		log.Error().Err(err).Int("payment_id", id).Msg("Failed to delete payment")
		return NewInternalError(c, "Failed to delete payment")
	}

	log.Info().Int("payment_id", id).Msg("Payment deleted")
	h.publisher.Publish(websocket.PaymentDeleted(map[string]int{"id": id}))

	return c.NoContent(http.StatusNoContent)
}

// mapPaymentError translates service errors into problem responses. An
// overpayment rejection carries the remaining balance in its detail.
func (h *PaymentHandler) mapPaymentError(c echo.Context, err error, logMsg string) error {
	var balanceErr *domain.OrderBalanceError
	if errors.As(err, &balanceErr) {
		return NewValidationError(c, "Payment exceeds remaining order balance", []ValidationError{
			{Field: "amountReceived", Message: "Remaining balance on this order is " + balanceErr.Remaining().StringFixed(2)},
		})
	}
	if errors.Is(err, domain.ErrInvalidAmount) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amountReceived", Message: "Amount must be greater than zero"},
		})
	}
	if errors.Is(err, domain.ErrClientNotFound) {
		return NewNotFoundError(c, "Client not found")
	}
	if errors.Is(err, domain.ErrOrderNotFound) {
		return NewNotFoundError(c, "Order not found")
	}
	if errors.Is(err, domain.ErrPaymentNotFound) {
		return NewNotFoundError(c, "Payment not found")
	}
	log.Error().Err(err).Msg(logMsg)
	return NewInternalError(c, logMsg)
}

func toPaymentResponses(payments []*domain.Payment) []PaymentResponse {
	response := make([]PaymentResponse, len(payments))
	for i, payment := range payments {
		response[i] = toPaymentResponse(payment)
	}
	return response
}

func toPaymentResponse(payment *domain.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:             payment.ID,
		ClientID:       payment.ClientID,
		ClientName:     payment.ClientName,
		OrderID:        payment.OrderID,
		OrderName:      payment.OrderName,
		AmountReceived: payment.AmountReceived.StringFixed(2),
		BankName:       payment.BankName,
		PaymentDate:    payment.PaymentDate.Format(dateLayout),
		CreatedAt:      payment.CreatedAt.Format(time.RFC3339),
	}
	if payment.UpdatedAt != nil {
		u := payment.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &u
	}
	return resp
}
