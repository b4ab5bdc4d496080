package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/karobar/karobar-backend/internal/domain"
	"github.com/karobar/karobar-backend/internal/service"
	"github.com/karobar/karobar-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles reporting HTTP requests. Every endpoint accepts the
// optional fromYear/fromMonth/toYear/toMonth query parameters.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// DashboardResponse represents the dashboard summary in API responses
type DashboardResponse struct {
	TotalOrders         int    `json:"totalOrders"`
	TotalOrderAmount    string `json:"totalOrderAmount"`
	TotalReceivedAmount string `json:"totalReceivedAmount"`
	TotalExpenses       string `json:"totalExpenses"`
	TotalPendingAmount  string `json:"totalPendingAmount"`
	Profit              string `json:"profit"`
}

// ClientActivityResponse represents one client's period activity
type ClientActivityResponse struct {
	ClientName       string `json:"clientName"`
	OrderCount       int    `json:"orderCount"`
	TotalOrderAmount string `json:"totalOrderAmount"`
	TotalPaidAmount  string `json:"totalPaidAmount"`
	PendingAmount    string `json:"pendingAmount"`
}

// ClientStatementResponse represents the detailed per-client statement
type ClientStatementResponse struct {
	ClientName         string `json:"clientName"`
	TotalOrders        int    `json:"totalOrders"`
	DeliveredOrders    int    `json:"deliveredOrders"`
	PendingOrders      int    `json:"pendingOrders"`
	TotalOrderAmount   string `json:"totalOrderAmount"`
	TotalPaidAmount    string `json:"totalPaidAmount"`
	TotalPendingAmount string `json:"totalPendingAmount"`
}

// OrderReportRowResponse is a flat order listing row
type OrderReportRowResponse struct {
	Date       string `json:"date"`
	ClientName string `json:"clientName"`
	Amount     string `json:"amount"`
	Status     string `json:"status"`
}

// PaymentReportRowResponse is a flat payment listing row
type PaymentReportRowResponse struct {
	Date       string  `json:"date"`
	ClientName string  `json:"clientName"`
	OrderName  string  `json:"orderName"`
	BankName   *string `json:"bankName,omitempty"`
	Amount     string  `json:"amount"`
}

// ExpenseReportRowResponse is a flat expense listing row
type ExpenseReportRowResponse struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Category    string `json:"category"`
	SpentBy     string `json:"spentBy,omitempty"`
	Amount      string `json:"amount"`
}

// CategorySummaryResponse is a per-category expense total
type CategorySummaryResponse struct {
	Category    string `json:"category"`
	TotalAmount string `json:"totalAmount"`
}

// PersonSummaryResponse is a per-spender expense total
type PersonSummaryResponse struct {
	SpentBy     string `json:"spentBy"`
	TotalAmount string `json:"totalAmount"`
}

// GetDashboard handles GET /api/v1/reports/dashboard
func (h *ReportHandler) GetDashboard(c echo.Context) error {
	period, vErr := parsePeriod(c)
	if vErr != nil {
		return NewValidationError(c, "Invalid period filter", []ValidationError{*vErr})
	}

	summary, err := h.reportService.GetDashboardSummary(*period)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build dashboard summary")
		return NewInternalError(c, "Failed to build dashboard summary")
	}

	return c.JSON(http.StatusOK, DashboardResponse{
		TotalOrders:         summary.TotalOrders,
		TotalOrderAmount:    summary.TotalOrderAmount.StringFixed(2),
		TotalReceivedAmount: summary.TotalReceivedAmount.StringFixed(2),
		TotalExpenses:       summary.TotalExpenses.StringFixed(2),
		TotalPendingAmount:  summary.TotalPendingAmount.StringFixed(2),
		Profit:              summary.Profit.StringFixed(2),
	})
}

// GetClientActivity handles GET /api/v1/reports/clients
func (h *ReportHandler) GetClientActivity(c echo.Context) error {
	period, vErr := parsePeriod(c)
	if vErr != nil {
		return NewValidationError(c, "Invalid period filter", []ValidationError{*vErr})
	}

	reports, err := h.reportService.GetClientActivityReports(*period)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build client activity reports")
		return NewInternalError(c, "Failed to build client activity reports")
	}

	response := make([]ClientActivityResponse, len(reports))
	for i, r := range reports {
		response[i] = ClientActivityResponse{
			ClientName:       r.ClientName,
			OrderCount:       r.OrderCount,
			TotalOrderAmount: r.TotalOrderAmount.StringFixed(2),
			TotalPaidAmount:  r.TotalPaidAmount.StringFixed(2),
			PendingAmount:    r.PendingAmount.StringFixed(2),
		}
	}
	return c.JSON(http.StatusOK, response)
}

// GetClientStatement handles GET /api/v1/reports/clients/:id
func (h *ReportHandler) GetClientStatement(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	period, vErr := parsePeriod(c)
	if vErr != nil {
		return NewValidationError(c, "Invalid period filter", []ValidationError{*vErr})
	}

	statement, err := h.reportService.GetClientStatement(int32(id), *period)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Int("client_id", id).Msg("Failed to build client statement")
		return NewInternalError(c, "Failed to build client statement")
	}

	return c.JSON(http.StatusOK, ClientStatementResponse{
		ClientName:         statement.ClientName,
		TotalOrders:        statement.TotalOrders,
		DeliveredOrders:    statement.DeliveredOrders,
		PendingOrders:      statement.PendingOrders,
		TotalOrderAmount:   statement.TotalOrderAmount.StringFixed(2),
		TotalPaidAmount:    statement.TotalPaidAmount.StringFixed(2),
		TotalPendingAmount: statement.TotalPendingAmount.StringFixed(2),
	})
}

// GetOrderReport handles GET /api/v1/reports/orders
func (h *ReportHandler) GetOrderReport(c echo.Context) error {
	period, vErr := parsePeriod(c)
	if vErr != nil {
		return NewValidationError(c, "Invalid period filter", []ValidationError{*vErr})
	}

	rows, err := h.reportService.GetOrderReport(*period)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build order report")
		return NewInternalError(c, "Failed to build order report")
	}

	response := make([]OrderReportRowResponse, len(rows))
	for i, r := range rows {
		response[i] = OrderReportRowResponse{
			Date:       r.Date.Format(dateLayout),
			ClientName: r.ClientName,
			Amount:     r.Amount.StringFixed(2),
			Status:     string(r.Status),
		}
	}
	return c.JSON(http.StatusOK, response)
}

// GetPaymentReport handles GET /api/v1/reports/payments
func (h *ReportHandler) GetPaymentReport(c echo.Context) error {
	period, vErr := parsePeriod(c)
	if vErr != nil {
		return NewValidationError(c, "Invalid period filter", []ValidationError{*vErr})
	}

	rows, err := h.reportService.GetPaymentReport(*period)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build payment report")
		return NewInternalError(c, "Failed to build payment report")
	}

	response := make([]PaymentReportRowResponse, len(rows))
	for i, r := range rows {
		response[i] = PaymentReportRowResponse{
			Date:       r.Date.Format(dateLayout),
			ClientName: r.ClientName,
			OrderName:  r.OrderName,
			BankName:   r.BankName,
			Amount:     r.Amount.StringFixed(2),
		}
	}
	return c.JSON(http.StatusOK, response)
}

// GetExpenseReport handles GET /api/v1/reports/expenses
func (h *ReportHandler) GetExpenseReport(c echo.Context) error {
	period, vErr := parsePeriod(c)
	if vErr != nil {
		return NewValidationError(c, "Invalid period filter", []ValidationError{*vErr})
	}

	rows, err := h.reportService.GetExpenseReport(*period)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build expense report")
		return NewInternalError(c, "Failed to build expense report")
	}

	response := make([]ExpenseReportRowResponse, len(rows))
	for i, r := range rows {
		response[i] = ExpenseReportRowResponse{
			Date:        r.Date.Format(dateLayout),
			Description: r.Description,
			Category:    r.Category,
			SpentBy:     r.SpentBy,
			Amount:      r.Amount.StringFixed(2),
		}
	}
	return c.JSON(http.StatusOK, response)
}

// GetCategorySummary handles GET /api/v1/reports/expense-categories
func (h *ReportHandler) GetCategorySummary(c echo.Context) error {
	period, vErr := parsePeriod(c)
	if vErr != nil {
		return NewValidationError(c, "Invalid period filter", []ValidationError{*vErr})
	}

	summaries, err := h.reportService.GetCategoryExpenseSummary(*period)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build category summary")
		return NewInternalError(c, "Failed to build category summary")
	}

	response := make([]CategorySummaryResponse, len(summaries))
	for i, s := range summaries {
		response[i] = CategorySummaryResponse{
			Category:    s.Category,
			TotalAmount: s.TotalAmount.StringFixed(2),
		}
	}
	return c.JSON(http.StatusOK, response)
}

// GetPersonSummary handles GET /api/v1/reports/expense-persons
func (h *ReportHandler) GetPersonSummary(c echo.Context) error {
	period, vErr := parsePeriod(c)
	if vErr != nil {
		return NewValidationError(c, "Invalid period filter", []ValidationError{*vErr})
	}

	summaries, err := h.reportService.GetPersonExpenseSummary(*period)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build person summary")
		return NewInternalError(c, "Failed to build person summary")
	}

	response := make([]PersonSummaryResponse, len(summaries))
	for i, s := range summaries {
		response[i] = PersonSummaryResponse{
			SpentBy:     s.SpentBy,
			TotalAmount: s.TotalAmount.StringFixed(2),
		}
	}
	return c.JSON(http.StatusOK, response)
}

// parsePeriod reads the optional fromYear/fromMonth/toYear/toMonth query
// parameters. Months must be 1-12 and the resolved range must not be inverted.
func parsePeriod(c echo.Context) (*service.Period, *ValidationError) {
	period := &service.Period{}

	var vErr *ValidationError
	readInt := func(name string, min, max int) *int {
		if vErr != nil {
			return nil
		}
		raw := c.QueryParam(name)
		if raw == "" {
			return nil
		}
		value, err := strconv.Atoi(raw)
		if err != nil || value < min || value > max {
			vErr = &ValidationError{Field: name, Message: "Must be a valid " + name}
			return nil
		}
		return &value
	}

	period.StartYear = readInt("fromYear", 1, 9999)
	period.StartMonth = readInt("fromMonth", 1, 12)
	period.EndYear = readInt("toYear", 1, 9999)
	period.EndMonth = readInt("toMonth", 1, 12)
	if vErr != nil {
		return nil, vErr
	}

	start, end := util.ResolvePeriod(period.StartYear, period.StartMonth, period.EndYear, period.EndMonth)
	if start != nil && end != nil && end.Before(*start) {
		return nil, &ValidationError{Field: "toYear", Message: "End of period is before its start"}
	}

	return period, nil
}
