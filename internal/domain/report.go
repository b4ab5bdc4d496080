package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary is the headline view over a period.
//
// PendingAmount and Profit deliberately use different payment universes:
// PendingAmount subtracts payments attached to the period's orders whatever
// the payment date, while Profit uses payments dated within the period. The
// first reasons about unpaid order balance, the second about period cash flow.
type DashboardSummary struct {
	TotalOrders         int             `json:"totalOrders"`
	TotalOrderAmount    decimal.Decimal `json:"totalOrderAmount"`
	TotalReceivedAmount decimal.Decimal `json:"totalReceivedAmount"`
	TotalExpenses       decimal.Decimal `json:"totalExpenses"`
	TotalPendingAmount  decimal.Decimal `json:"totalPendingAmount"`
	Profit              decimal.Decimal `json:"profit"`
}

// ClientActivityReport summarizes one client's orders and payments in a period.
type ClientActivityReport struct {
	ClientName       string          `json:"clientName"`
	OrderCount       int             `json:"orderCount"`
	TotalOrderAmount decimal.Decimal `json:"totalOrderAmount"`
	TotalPaidAmount  decimal.Decimal `json:"totalPaidAmount"`
	PendingAmount    decimal.Decimal `json:"pendingAmount"`
}

// ClientStatement is the detailed per-client report for a period.
type ClientStatement struct {
	ClientName         string          `json:"clientName"`
	TotalOrders        int             `json:"totalOrders"`
	DeliveredOrders    int             `json:"deliveredOrders"`
	PendingOrders      int             `json:"pendingOrders"`
	TotalOrderAmount   decimal.Decimal `json:"totalOrderAmount"`
	TotalPaidAmount    decimal.Decimal `json:"totalPaidAmount"`
	TotalPendingAmount decimal.Decimal `json:"totalPendingAmount"`
}

// OrderReportRow is an order projected for report listings.
type OrderReportRow struct {
	Date       time.Time       `json:"date"`
	ClientName string          `json:"clientName"`
	Amount     decimal.Decimal `json:"amount"`
	Status     OrderStatus     `json:"status"`
}

// PaymentReportRow is a payment projected for report listings.
type PaymentReportRow struct {
	Date       time.Time       `json:"date"`
	ClientName string          `json:"clientName"`
	OrderName  string          `json:"orderName"`
	BankName   *string         `json:"bankName,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// ExpenseReportRow is an expense projected for report listings.
type ExpenseReportRow struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	SpentBy     string          `json:"spentBy"`
	Amount      decimal.Decimal `json:"amount"`
}

// CategoryExpenseSummary is a category's expense total in a period.
type CategoryExpenseSummary struct {
	Category    string          `json:"category"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// PersonExpenseSummary is a spender's expense total in a period.
type PersonExpenseSummary struct {
	SpentBy     string          `json:"spentBy"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}
