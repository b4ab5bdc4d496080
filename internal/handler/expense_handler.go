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

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
	publisher      websocket.EventPublisher
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService, publisher websocket.EventPublisher) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		publisher:      publisher,
	}
}

// ExpenseRequest represents the create/update expense request body
type ExpenseRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category,omitempty"`
	SpentBy     string `json:"spentBy,omitempty"`
	SpentDate   string `json:"spentDate"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          int32   `json:"id"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	SpentBy     string  `json:"spentBy,omitempty"`
	Amount      string  `json:"amount"`
	SpentDate   string  `json:"spentDate"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt,omitempty"`
}

// CreateExpense handles POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, vErr := h.parseExpenseRequest(req)
	if vErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*vErr})
	}

	expense, err := h.expenseService.CreateExpense(service.CreateExpenseInput(*input))
	if err != nil {
		return h.mapExpenseError(c, err, "Failed to create expense")
	}

	log.Info().Int32("expense_id", expense.ID).Str("category", expense.Category).Str("amount", expense.Amount.StringFixed(2)).Msg("Expense recorded")
	h.publisher.Publish(websocket.ExpenseCreated(toExpenseResponse(expense)))

	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// GetExpenses handles GET /api/v1/expenses
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	expenses, err := h.expenseService.GetExpenses()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get expenses")
		return NewInternalError(c, "Failed to get expenses")
	}

	response := make([]ExpenseResponse, len(expenses))
	for i, expense := range expenses {
		response[i] = toExpenseResponse(expense)
	}
	return c.JSON(http.StatusOK, response)
}

// GetCategories handles GET /api/v1/expenses/categories
func (h *ExpenseHandler) GetCategories(c echo.Context) error {
	categories, err := h.expenseService.GetCategories()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get categories")
		return NewInternalError(c, "Failed to get categories")
	}
	return c.JSON(http.StatusOK, categories)
}

// UpdateExpense handles PUT /api/v1/expenses/:id
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, vErr := h.parseExpenseRequest(req)
	if vErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*vErr})
	}

	expense, err := h.expenseService.UpdateExpense(int32(id), service.UpdateExpenseInput(*input))
	if err != nil {
		return h.mapExpenseError(c, err, "Failed to update expense")
	}

	log.Info().Int32("expense_id", expense.ID).Msg("Expense updated")
	h.publisher.Publish(websocket.ExpenseUpdated(toExpenseResponse(expense)))

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// DeleteExpense handles DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if err := h.expenseService.DeleteExpense(int32(id)); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Int("expense_id", id).Msg("Failed to delete expense")
		return NewInternalError(c, "Failed to delete expense")
	}

	log.Info().Int("expense_id", id).Msg("Expense deleted")
	h.publisher.Publish(websocket.ExpenseDeleted(map[string]int{"id": id}))

	return c.NoContent(http.StatusNoContent)
}

func (h *ExpenseHandler) parseExpenseRequest(req ExpenseRequest) (*service.CreateExpenseInput, *ValidationError) {
	spentDate, err := parseDate(req.SpentDate)
	if err != nil {
		return nil, &ValidationError{Field: "spentDate", Message: "Must be a date in YYYY-MM-DD format"}
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, &ValidationError{Field: "amount", Message: "Must be a valid decimal number"}
	}

	return &service.CreateExpenseInput{
		Description: req.Description,
		Amount:      amount,
		Category:    req.Category,
		SpentBy:     req.SpentBy,
		SpentDate:   spentDate,
	}, nil
}

func (h *ExpenseHandler) mapExpenseError(c echo.Context, err error, logMsg string) error {
	if errors.Is(err, domain.ErrDescriptionRequired) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		})
	}
	if errors.Is(err, domain.ErrInvalidAmount) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be greater than zero"},
		})
	}
	if errors.Is(err, domain.ErrExpenseNotFound) {
		return NewNotFoundError(c, "Expense not found")
	}
	log.Error().Err(err).Msg(logMsg)
	return NewInternalError(c, logMsg)
}

func toExpenseResponse(expense *domain.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:          expense.ID,
		Description: expense.Description,
		Category:    expense.Category,
		SpentBy:     expense.SpentBy,
		Amount:      expense.Amount.StringFixed(2),
		SpentDate:   expense.SpentDate.Format(dateLayout),
		CreatedAt:   expense.CreatedAt.Format(time.RFC3339),
	}
	if expense.UpdatedAt != nil {
		u := expense.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &u
	}
	return resp
}
