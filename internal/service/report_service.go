package service

import (
	"sort"
	"time"

	"github.com/karobar/karobar-backend/internal/domain"
	"github.com/karobar/karobar-backend/internal/util"
	"github.com/shopspring/decimal"
)

// ReportService aggregates orders, payments and expenses into period reports.
// All methods treat an empty period filter as "all time".
type ReportService struct {
	clientRepo  domain.ClientRepository
	orderRepo   domain.OrderRepository
	paymentRepo domain.PaymentRepository
	expenseRepo domain.ExpenseRepository
}

// NewReportService creates a new ReportService
func NewReportService(clientRepo domain.ClientRepository, orderRepo domain.OrderRepository, paymentRepo domain.PaymentRepository, expenseRepo domain.ExpenseRepository) *ReportService {
	return &ReportService{
		clientRepo:  clientRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		expenseRepo: expenseRepo,
	}
}

// Period is an optional year/month filter. A nil StartYear selects all time.
type Period struct {
	StartYear  *int
	StartMonth *int
	EndYear    *int
	EndMonth   *int
}

// resolve turns the filter into concrete bounds via the period resolver.
func (p Period) resolve() (*time.Time, *time.Time) {
	return util.ResolvePeriod(p.StartYear, p.StartMonth, p.EndYear, p.EndMonth)
}

// GetDashboardSummary computes the headline figures for a period.
//
// The pending amount subtracts every payment attached to the period's orders,
// whatever the payment was dated, because it answers "how much of these orders
// is still unpaid". Profit instead uses payments and expenses dated within the
// period, answering "how did cash move during it".
func (s *ReportService) GetDashboardSummary(period Period) (*domain.DashboardSummary, error) {
	start, end := period.resolve()

	orders, err := s.orderRepo.GetByDateRange(start, end)
	if err != nil {
		return nil, err
	}

	totalOrderAmount := decimal.Zero
	orderIDs := make([]int32, 0, len(orders))
	for _, o := range orders {
		totalOrderAmount = totalOrderAmount.Add(o.OrderAmount)
		orderIDs = append(orderIDs, o.ID)
	}

	paidOnOrders := decimal.Zero
	if len(orderIDs) > 0 {
		paidOnOrders, err = s.paymentRepo.SumByOrders(orderIDs)
		if err != nil {
			return nil, err
		}
	}

	received, err := s.paymentRepo.SumByDateRange(start, end)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.SumByDateRange(start, end)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardSummary{
		TotalOrders:         len(orders),
		TotalOrderAmount:    totalOrderAmount,
		TotalReceivedAmount: received,
		TotalExpenses:       expenses,
		TotalPendingAmount:  totalOrderAmount.Sub(paidOnOrders),
		Profit:              received.Sub(expenses),
	}, nil
}

// GetClientActivityReports summarizes each client's orders and payments within
// a period, sorted by client name ascending. Clients with no activity in the
// period are omitted.
func (s *ReportService) GetClientActivityReports(period Period) ([]*domain.ClientActivityReport, error) {
	start, end := period.resolve()

	orders, err := s.orderRepo.GetByDateRange(start, end)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.GetByDateRange(start, end)
	if err != nil {
		return nil, err
	}

	// Grouped by client ID, not name: a client created after a namesake was
	// soft-deleted must not merge with the old client's activity.
	byClient := make(map[int32]*domain.ClientActivityReport)
	get := func(clientID int32, name string) *domain.ClientActivityReport {
		r, ok := byClient[clientID]
		if !ok {
			r = &domain.ClientActivityReport{
				ClientName:       name,
				TotalOrderAmount: decimal.Zero,
				TotalPaidAmount:  decimal.Zero,
			}
			byClient[clientID] = r
		}
		return r
	}

	for _, o := range orders {
		r := get(o.ClientID, o.ClientName)
		r.OrderCount++
		r.TotalOrderAmount = r.TotalOrderAmount.Add(o.OrderAmount)
	}
	for _, p := range payments {
		r := get(p.ClientID, p.ClientName)
		r.TotalPaidAmount = r.TotalPaidAmount.Add(p.AmountReceived)
	}

	reports := make([]*domain.ClientActivityReport, 0, len(byClient))
	for _, r := range byClient {
		r.PendingAmount = r.TotalOrderAmount.Sub(r.TotalPaidAmount)
		reports = append(reports, r)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].ClientName < reports[j].ClientName
	})

	return reports, nil
}

// GetClientStatement builds the detailed statement for one client over a
// period. A client with no activity gets an all-zero statement.
func (s *ReportService) GetClientStatement(clientID int32, period Period) (*domain.ClientStatement, error) {
	client, err := s.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, err
	}

	start, end := period.resolve()

	orders, err := s.orderRepo.GetByClient(clientID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.GetByClient(clientID)
	if err != nil {
		return nil, err
	}

	statement := &domain.ClientStatement{
		ClientName:       client.Name,
		TotalOrderAmount: decimal.Zero,
		TotalPaidAmount:  decimal.Zero,
	}

	for _, o := range orders {
		if !inPeriod(o.OrderDate, start, end) {
			continue
		}
		statement.TotalOrders++
		if o.Status == domain.OrderStatusDelivered {
			statement.DeliveredOrders++
		} else {
			statement.PendingOrders++
		}
		statement.TotalOrderAmount = statement.TotalOrderAmount.Add(o.OrderAmount)
	}
	for _, p := range payments {
		if !inPeriod(p.PaymentDate, start, end) {
			continue
		}
		statement.TotalPaidAmount = statement.TotalPaidAmount.Add(p.AmountReceived)
	}
	statement.TotalPendingAmount = statement.TotalOrderAmount.Sub(statement.TotalPaidAmount)

	return statement, nil
}

// GetOrderReport lists the period's orders as flat rows, date ascending.
func (s *ReportService) GetOrderReport(period Period) ([]*domain.OrderReportRow, error) {
	start, end := period.resolve()

	orders, err := s.orderRepo.GetByDateRange(start, end)
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.OrderReportRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, &domain.OrderReportRow{
			Date:       o.OrderDate,
			ClientName: o.ClientName,
			Amount:     o.OrderAmount,
			Status:     o.Status,
		})
	}
	return rows, nil
}

// GetPaymentReport lists the period's payments as flat rows, date ascending.
func (s *ReportService) GetPaymentReport(period Period) ([]*domain.PaymentReportRow, error) {
	start, end := period.resolve()

	payments, err := s.paymentRepo.GetByDateRange(start, end)
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.PaymentReportRow, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, &domain.PaymentReportRow{
			Date:       p.PaymentDate,
			ClientName: p.ClientName,
			OrderName:  p.OrderName,
			BankName:   p.BankName,
			Amount:     p.AmountReceived,
		})
	}
	return rows, nil
}

// GetExpenseReport lists the period's expenses as flat rows, date ascending.
func (s *ReportService) GetExpenseReport(period Period) ([]*domain.ExpenseReportRow, error) {
	start, end := period.resolve()

	expenses, err := s.expenseRepo.GetByDateRange(start, end)
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.ExpenseReportRow, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, &domain.ExpenseReportRow{
			Date:        e.SpentDate,
			Description: e.Description,
			Category:    e.Category,
			SpentBy:     e.SpentBy,
			Amount:      e.Amount,
		})
	}
	return rows, nil
}

// GetCategoryExpenseSummary totals the period's expenses per category, largest
// total first.
func (s *ReportService) GetCategoryExpenseSummary(period Period) ([]*domain.CategoryExpenseSummary, error) {
	start, end := period.resolve()

	expenses, err := s.expenseRepo.GetByDateRange(start, end)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}

	summaries := make([]*domain.CategoryExpenseSummary, 0, len(totals))
	for category, total := range totals {
		summaries = append(summaries, &domain.CategoryExpenseSummary{
			Category:    category,
			TotalAmount: total,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].TotalAmount.Equal(summaries[j].TotalAmount) {
			return summaries[i].TotalAmount.GreaterThan(summaries[j].TotalAmount)
		}
		return summaries[i].Category < summaries[j].Category
	})

	return summaries, nil
}

// GetPersonExpenseSummary totals the period's expenses per spender, largest
// total first. Expenses with no spender recorded are left out.
func (s *ReportService) GetPersonExpenseSummary(period Period) ([]*domain.PersonExpenseSummary, error) {
	start, end := period.resolve()

	expenses, err := s.expenseRepo.GetByDateRange(start, end)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		if e.SpentBy == "" {
			continue
		}
		totals[e.SpentBy] = totals[e.SpentBy].Add(e.Amount)
	}

	summaries := make([]*domain.PersonExpenseSummary, 0, len(totals))
	for person, total := range totals {
		summaries = append(summaries, &domain.PersonExpenseSummary{
			SpentBy:     person,
			TotalAmount: total,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].TotalAmount.Equal(summaries[j].TotalAmount) {
			return summaries[i].TotalAmount.GreaterThan(summaries[j].TotalAmount)
		}
		return summaries[i].SpentBy < summaries[j].SpentBy
	})

	return summaries, nil
}

// inPeriod reports whether t falls within the closed interval. Nil bounds are open.
func inPeriod(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}
