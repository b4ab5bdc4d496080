package service

import (
	"testing"
	"time"

	"github.com/karobar/karobar-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

type reportFixture struct {
	clients  *ClientService
	orders   *OrderService
	payments *PaymentService
	expenses *ExpenseService
	reports  *ReportService
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()

	clientRepo, orderRepo, paymentRepo, expenseRepo := testutil.NewMockRepositories()
	return &reportFixture{
		clients:  NewClientService(clientRepo),
		orders:   NewOrderService(orderRepo, clientRepo),
		payments: NewPaymentService(paymentRepo, orderRepo, clientRepo),
		expenses: NewExpenseService(expenseRepo),
		reports:  NewReportService(clientRepo, orderRepo, paymentRepo, expenseRepo),
	}
}

func (f *reportFixture) addClient(t *testing.T, name string) int32 {
	t.Helper()
	client, err := f.clients.CreateClient(CreateClientInput{Name: name})
	if err != nil {
		t.Fatalf("Expected no error creating client, got %v", err)
	}
	return client.ID
}

func (f *reportFixture) addOrder(t *testing.T, clientID int32, amount int64, orderDate time.Time) int32 {
	t.Helper()
	order, err := f.orders.CreateOrder(CreateOrderInput{
		ClientID:    clientID,
		OrderDate:   orderDate,
		OrderAmount: decimal.NewFromInt(amount),
	})
	if err != nil {
		t.Fatalf("Expected no error creating order, got %v", err)
	}
	return order.ID
}

func (f *reportFixture) addPayment(t *testing.T, clientID int32, orderID *int32, amount int64, paymentDate time.Time) {
	t.Helper()
	if _, err := f.payments.CreatePayment(CreatePaymentInput{
		ClientID:       clientID,
		OrderID:        orderID,
		AmountReceived: decimal.NewFromInt(amount),
		PaymentDate:    paymentDate,
	}); err != nil {
		t.Fatalf("Expected no error creating payment, got %v", err)
	}
}

func (f *reportFixture) addExpense(t *testing.T, category, spentBy string, amount int64, spentDate time.Time) {
	t.Helper()
	if _, err := f.expenses.CreateExpense(CreateExpenseInput{
		Description: "Expense",
		Amount:      decimal.NewFromInt(amount),
		Category:    category,
		SpentBy:     spentBy,
		SpentDate:   spentDate,
	}); err != nil {
		t.Fatalf("Expected no error creating expense, got %v", err)
	}
}

func marchOnly() Period {
	return Period{StartYear: intPtr(2026), StartMonth: intPtr(3)}
}

func TestDashboardSummary_EmptyPeriod(t *testing.T) {
	f := newReportFixture(t)

	summary, err := f.reports.GetDashboardSummary(Period{StartYear: intPtr(2020)})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summary.TotalOrders != 0 {
		t.Errorf("Expected 0 orders, got %d", summary.TotalOrders)
	}
	if !summary.TotalOrderAmount.IsZero() || !summary.TotalReceivedAmount.IsZero() ||
		!summary.TotalExpenses.IsZero() || !summary.TotalPendingAmount.IsZero() || !summary.Profit.IsZero() {
		t.Error("Expected all-zero summary for an interval with no records")
	}
}

func TestDashboardSummary_PendingUsesOrderAttachedPayments(t *testing.T) {
	f := newReportFixture(t)
	clientID := f.addClient(t, "Acme Traders")

	// Order in March; the payment that funds it lands in April
	orderID := f.addOrder(t, clientID, 1000, date(2026, time.March, 10))
	f.addPayment(t, clientID, &orderID, 400, date(2026, time.April, 2))

	summary, err := f.reports.GetDashboardSummary(marchOnly())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Pending counts the April payment because it funds a March order
	if !summary.TotalPendingAmount.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected pending 600, got %s", summary.TotalPendingAmount.String())
	}

	// Received and profit only see payments dated inside March
	if !summary.TotalReceivedAmount.IsZero() {
		t.Errorf("Expected received 0 for March, got %s", summary.TotalReceivedAmount.String())
	}
	if !summary.Profit.IsZero() {
		t.Errorf("Expected profit 0 for March, got %s", summary.Profit.String())
	}
}

func TestDashboardSummary_ProfitUsesPeriodCashFlow(t *testing.T) {
	f := newReportFixture(t)
	clientID := f.addClient(t, "Acme Traders")

	// An advance and an expense inside March; no orders at all
	f.addPayment(t, clientID, nil, 500, date(2026, time.March, 5))
	f.addExpense(t, "Fuel", "Ravi", 150, date(2026, time.March, 7))

	summary, err := f.reports.GetDashboardSummary(marchOnly())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !summary.TotalReceivedAmount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected received 500, got %s", summary.TotalReceivedAmount.String())
	}
	if !summary.Profit.Equal(decimal.NewFromInt(350)) {
		t.Errorf("Expected profit 350, got %s", summary.Profit.String())
	}
	// No orders in the period, so nothing is pending
	if !summary.TotalPendingAmount.IsZero() {
		t.Errorf("Expected pending 0, got %s", summary.TotalPendingAmount.String())
	}
}

func TestClientActivityReports_SortedByName(t *testing.T) {
	f := newReportFixture(t)
	zaraID := f.addClient(t, "Zara Works")
	acmeID := f.addClient(t, "Acme Traders")

	f.addOrder(t, zaraID, 300, date(2026, time.March, 2))
	f.addOrder(t, acmeID, 1000, date(2026, time.March, 4))
	f.addPayment(t, acmeID, nil, 250, date(2026, time.March, 8))

	reports, err := f.reports.GetClientActivityReports(marchOnly())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(reports) != 2 {
		t.Fatalf("Expected 2 reports, got %d", len(reports))
	}
	if reports[0].ClientName != "Acme Traders" || reports[1].ClientName != "Zara Works" {
		t.Errorf("Expected reports sorted by name, got %q then %q", reports[0].ClientName, reports[1].ClientName)
	}

	acme := reports[0]
	if acme.OrderCount != 1 {
		t.Errorf("Expected 1 order, got %d", acme.OrderCount)
	}
	if !acme.TotalPaidAmount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected paid 250, got %s", acme.TotalPaidAmount.String())
	}
	if !acme.PendingAmount.Equal(decimal.NewFromInt(750)) {
		t.Errorf("Expected pending 750, got %s", acme.PendingAmount.String())
	}
}

func TestClientActivityReports_SeparatesNamesakeClients(t *testing.T) {
	f := newReportFixture(t)

	first := f.addClient(t, "Acme Traders")
	f.addOrder(t, first, 1000, date(2026, time.March, 3))

	// Soft-delete frees the name; the successor is a different client
	if err := f.clients.DeleteClient(first); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second := f.addClient(t, "Acme Traders")
	f.addPayment(t, second, nil, 250, date(2026, time.March, 8))

	reports, err := f.reports.GetClientActivityReports(marchOnly())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(reports) != 2 {
		t.Fatalf("Expected namesake clients to stay separate, got %d reports", len(reports))
	}
	for _, r := range reports {
		if r.OrderCount == 1 && !r.TotalPaidAmount.IsZero() {
			t.Error("Expected the old client's order and the new client's payment on separate rows")
		}
	}
}

func TestClientStatement(t *testing.T) {
	f := newReportFixture(t)
	clientID := f.addClient(t, "Acme Traders")

	firstID := f.addOrder(t, clientID, 1000, date(2026, time.March, 2))
	f.addOrder(t, clientID, 400, date(2026, time.March, 12))
	// Outside the period
	f.addOrder(t, clientID, 999, date(2026, time.May, 1))

	if _, err := f.orders.MarkDelivered(firstID, date(2026, time.March, 20)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	f.addPayment(t, clientID, &firstID, 600, date(2026, time.March, 15))

	statement, err := f.reports.GetClientStatement(clientID, marchOnly())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if statement.TotalOrders != 2 {
		t.Errorf("Expected 2 orders in period, got %d", statement.TotalOrders)
	}
	if statement.DeliveredOrders != 1 || statement.PendingOrders != 1 {
		t.Errorf("Expected 1 delivered and 1 pending, got %d and %d", statement.DeliveredOrders, statement.PendingOrders)
	}
	if !statement.TotalOrderAmount.Equal(decimal.NewFromInt(1400)) {
		t.Errorf("Expected ordered 1400, got %s", statement.TotalOrderAmount.String())
	}
	if !statement.TotalPaidAmount.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected paid 600, got %s", statement.TotalPaidAmount.String())
	}
	if !statement.TotalPendingAmount.Equal(decimal.NewFromInt(800)) {
		t.Errorf("Expected pending 800, got %s", statement.TotalPendingAmount.String())
	}
}

func TestClientStatement_NoActivity(t *testing.T) {
	f := newReportFixture(t)
	clientID := f.addClient(t, "Acme Traders")

	statement, err := f.reports.GetClientStatement(clientID, marchOnly())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if statement.TotalOrders != 0 || !statement.TotalPendingAmount.IsZero() {
		t.Error("Expected an all-zero statement for a client with no activity")
	}
}

func TestOrderReport_AscendingDates(t *testing.T) {
	f := newReportFixture(t)
	clientID := f.addClient(t, "Acme Traders")

	f.addOrder(t, clientID, 200, date(2026, time.March, 20))
	f.addOrder(t, clientID, 100, date(2026, time.March, 5))

	rows, err := f.reports.GetOrderReport(marchOnly())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Date.After(rows[1].Date) {
		t.Error("Expected rows sorted by date ascending")
	}
	if rows[0].ClientName != "Acme Traders" {
		t.Errorf("Expected client name on row, got %q", rows[0].ClientName)
	}
}

func TestCategoryExpenseSummary_SortedDescending(t *testing.T) {
	f := newReportFixture(t)

	f.addExpense(t, "Fuel", "Ravi", 150, date(2026, time.March, 3))
	f.addExpense(t, "Staff", "Nimal", 120, date(2026, time.March, 4))
	f.addExpense(t, "Staff", "Ravi", 80, date(2026, time.March, 9))

	summaries, err := f.reports.GetCategoryExpenseSummary(marchOnly())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Category != "Staff" || !summaries[0].TotalAmount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected Staff 200 first, got %s %s", summaries[0].Category, summaries[0].TotalAmount.String())
	}
	if summaries[1].Category != "Fuel" || !summaries[1].TotalAmount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected Fuel 150 second, got %s %s", summaries[1].Category, summaries[1].TotalAmount.String())
	}
}

func TestPersonExpenseSummary_SkipsBlankSpender(t *testing.T) {
	f := newReportFixture(t)

	f.addExpense(t, "Fuel", "Ravi", 150, date(2026, time.March, 3))
	f.addExpense(t, "Staff", "Ravi", 80, date(2026, time.March, 4))
	f.addExpense(t, "Misc", "", 40, date(2026, time.March, 5))

	summaries, err := f.reports.GetPersonExpenseSummary(marchOnly())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].SpentBy != "Ravi" || !summaries[0].TotalAmount.Equal(decimal.NewFromInt(230)) {
		t.Errorf("Expected Ravi 230, got %s %s", summaries[0].SpentBy, summaries[0].TotalAmount.String())
	}
}

func TestReports_AllTimeWhenPeriodEmpty(t *testing.T) {
	f := newReportFixture(t)
	clientID := f.addClient(t, "Acme Traders")

	f.addOrder(t, clientID, 100, date(2024, time.January, 1))
	f.addOrder(t, clientID, 200, date(2026, time.June, 1))

	summary, err := f.reports.GetDashboardSummary(Period{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.TotalOrders != 2 {
		t.Errorf("Expected all-time report to see 2 orders, got %d", summary.TotalOrders)
	}
	if !summary.TotalOrderAmount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected ordered 300, got %s", summary.TotalOrderAmount.String())
	}
}
