package testutil

import (
	"sort"
	"strings"
	"time"

	"github.com/karobar/karobar-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// MockClientRepository is an in-memory implementation of domain.ClientRepository.
// Orders and Payments let GetBalance reflect records held by sibling mocks.
type MockClientRepository struct {
	Clients  map[int32]*domain.Client
	NextID   int32
	Orders   *MockOrderRepository
	Payments *MockPaymentRepository
}

// NewMockClientRepository creates a new MockClientRepository
func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{
		Clients: make(map[int32]*domain.Client),
		NextID:  1,
	}
}

// Create creates a new client
func (m *MockClientRepository) Create(client *domain.Client) (*domain.Client, error) {
	c := *client
	c.ID = m.NextID
	c.CreatedAt = time.Now().UTC()
	m.NextID++
	m.Clients[c.ID] = &c
	return &c, nil
}

// GetByID retrieves a client by ID
func (m *MockClientRepository) GetByID(id int32) (*domain.Client, error) {
	if c, ok := m.Clients[id]; ok {
		return c, nil
	}
	return nil, domain.ErrClientNotFound
}

// GetAll retrieves all clients sorted by ID
func (m *MockClientRepository) GetAll() ([]*domain.Client, error) {
	clients := make([]*domain.Client, 0, len(m.Clients))
	for _, c := range m.Clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })
	return clients, nil
}

// GetAllActive retrieves active clients sorted by ID
func (m *MockClientRepository) GetAllActive() ([]*domain.Client, error) {
	all, _ := m.GetAll()
	active := make([]*domain.Client, 0, len(all))
	for _, c := range all {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

// Update updates an existing client
func (m *MockClientRepository) Update(id int32, data *domain.UpdateClientData) (*domain.Client, error) {
	c, ok := m.Clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	now := time.Now().UTC()
	c.Name = data.Name
	c.Phone = data.Phone
	c.Address = data.Address
	c.IsActive = data.IsActive
	c.UpdatedAt = &now
	return c, nil
}

// SoftDelete clears the client's active flag
func (m *MockClientRepository) SoftDelete(id int32) error {
	c, ok := m.Clients[id]
	if !ok {
		return domain.ErrClientNotFound
	}
	c.IsActive = false
	return nil
}

// ExistsActiveName reports whether an active client uses the name (case-insensitive)
func (m *MockClientRepository) ExistsActiveName(name string) (bool, error) {
	for _, c := range m.Clients {
		if c.IsActive && strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// GetBalance returns the client's all-time ordered and paid totals. Wire the
// order and payment mocks in when a test needs non-zero balances.
func (m *MockClientRepository) GetBalance(clientID int32) (*domain.ClientBalance, error) {
	balance := &domain.ClientBalance{TotalOrdered: decimal.Zero, TotalPaid: decimal.Zero}
	if m.Orders != nil {
		for _, o := range m.Orders.Orders {
			if o.ClientID == clientID {
				balance.TotalOrdered = balance.TotalOrdered.Add(o.OrderAmount)
			}
		}
	}
	if m.Payments != nil {
		for _, p := range m.Payments.Payments {
			if p.ClientID == clientID {
				balance.TotalPaid = balance.TotalPaid.Add(p.AmountReceived)
			}
		}
	}
	return balance, nil
}

var _ domain.ClientRepository = (*MockClientRepository)(nil)

// MockOrderRepository is an in-memory implementation of domain.OrderRepository
type MockOrderRepository struct {
	Orders   map[int32]*domain.Order
	NextID   int32
	Payments *MockPaymentRepository
	Clients  *MockClientRepository
}

// NewMockOrderRepository creates a new MockOrderRepository
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		Orders: make(map[int32]*domain.Order),
		NextID: 1,
	}
}

// Create creates a new order
func (m *MockOrderRepository) Create(order *domain.Order) (*domain.Order, error) {
	o := *order
	o.ID = m.NextID
	o.CreatedAt = time.Now().UTC()
	m.NextID++
	m.fillClientName(&o)
	m.Orders[o.ID] = &o
	return &o, nil
}

// GetByID retrieves an order by ID
func (m *MockOrderRepository) GetByID(id int32) (*domain.Order, error) {
	if o, ok := m.Orders[id]; ok {
		return o, nil
	}
	return nil, domain.ErrOrderNotFound
}

// GetAll retrieves all orders sorted by order date ascending
func (m *MockOrderRepository) GetAll() ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(m.Orders))
	for _, o := range m.Orders {
		orders = append(orders, o)
	}
	sortOrders(orders)
	return orders, nil
}

// GetByClient retrieves a client's orders sorted by order date ascending
func (m *MockOrderRepository) GetByClient(clientID int32) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0)
	for _, o := range m.Orders {
		if o.ClientID == clientID {
			orders = append(orders, o)
		}
	}
	sortOrders(orders)
	return orders, nil
}

// GetByDateRange retrieves orders dated within [start, end], date ascending
func (m *MockOrderRepository) GetByDateRange(start, end *time.Time) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0)
	for _, o := range m.Orders {
		if withinRange(o.OrderDate, start, end) {
			orders = append(orders, o)
		}
	}
	sortOrders(orders)
	return orders, nil
}

// Update updates an existing order
func (m *MockOrderRepository) Update(id int32, data *domain.UpdateOrderData) (*domain.Order, error) {
	o, ok := m.Orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	now := time.Now().UTC()
	o.OrderName = data.OrderName
	o.OrderDate = data.OrderDate
	o.DeliveredDate = data.DeliveredDate
	o.OrderAmount = data.OrderAmount
	o.Status = data.Status
	o.Size = data.Size
	o.UOM = data.UOM
	o.Quantity = data.Quantity
	o.MaterialNo = data.MaterialNo
	o.CostingLayer = data.CostingLayer
	o.Color = data.Color
	o.MaterialSpec = data.MaterialSpec
	o.PaintSpec = data.PaintSpec
	o.QualitySpec = data.QualitySpec
	o.WorkNatureSpec = data.WorkNatureSpec
	o.DurabilitySpec = data.DurabilitySpec
	o.ModelingLastDate = data.ModelingLastDate
	o.FiberStartDate = data.FiberStartDate
	o.OrderBy = data.OrderBy
	o.ModelingBy = data.ModelingBy
	o.FiberBy = data.FiberBy
	o.ImagePath = data.ImagePath
	o.UpdatedAt = &now
	return o, nil
}

// Delete removes the order and clears the reference on payments that funded it
func (m *MockOrderRepository) Delete(id int32) error {
	if _, ok := m.Orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	if m.Payments != nil {
		for _, p := range m.Payments.Payments {
			if p.OrderID != nil && *p.OrderID == id {
				p.OrderID = nil
				p.OrderName = "Advance"
			}
		}
	}
	delete(m.Orders, id)
	return nil
}

// MarkDelivered stamps the delivered date and flips the status
func (m *MockOrderRepository) MarkDelivered(id int32, deliveredDate time.Time) (*domain.Order, error) {
	o, ok := m.Orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Status = domain.OrderStatusDelivered
	o.DeliveredDate = &deliveredDate
	return o, nil
}

// SumAmountByStatus sums order amounts for the given status
func (m *MockOrderRepository) SumAmountByStatus(status domain.OrderStatus) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, o := range m.Orders {
		if o.Status == status {
			total = total.Add(o.OrderAmount)
		}
	}
	return total, nil
}

func (m *MockOrderRepository) fillClientName(o *domain.Order) {
	if m.Clients == nil {
		return
	}
	if c, ok := m.Clients.Clients[o.ClientID]; ok {
		o.ClientName = c.Name
	}
}

var _ domain.OrderRepository = (*MockOrderRepository)(nil)

// MockPaymentRepository is an in-memory implementation of domain.PaymentRepository
type MockPaymentRepository struct {
	Payments map[int32]*domain.Payment
	NextID   int32
	Orders   *MockOrderRepository
	Clients  *MockClientRepository
}

// NewMockPaymentRepository creates a new MockPaymentRepository
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		Payments: make(map[int32]*domain.Payment),
		NextID:   1,
	}
}

// Create creates a new payment
func (m *MockPaymentRepository) Create(payment *domain.Payment) (*domain.Payment, error) {
	if err := m.checkBalance(payment.OrderID, payment.AmountReceived, nil); err != nil {
		return nil, err
	}
	p := *payment
	p.ID = m.NextID
	p.CreatedAt = time.Now().UTC()
	m.NextID++
	m.fillNames(&p)
	m.Payments[p.ID] = &p
	return &p, nil
}

// GetByID retrieves a payment by ID
func (m *MockPaymentRepository) GetByID(id int32) (*domain.Payment, error) {
	if p, ok := m.Payments[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPaymentNotFound
}

// GetAll retrieves all payments sorted by payment date ascending
func (m *MockPaymentRepository) GetAll() ([]*domain.Payment, error) {
	payments := make([]*domain.Payment, 0, len(m.Payments))
	for _, p := range m.Payments {
		payments = append(payments, p)
	}
	sortPayments(payments)
	return payments, nil
}

// GetByClient retrieves a client's payments sorted by payment date ascending
func (m *MockPaymentRepository) GetByClient(clientID int32) ([]*domain.Payment, error) {
	payments := make([]*domain.Payment, 0)
	for _, p := range m.Payments {
		if p.ClientID == clientID {
			payments = append(payments, p)
		}
	}
	sortPayments(payments)
	return payments, nil
}

// GetByOrder retrieves the payments attached to an order
func (m *MockPaymentRepository) GetByOrder(orderID int32) ([]*domain.Payment, error) {
	payments := make([]*domain.Payment, 0)
	for _, p := range m.Payments {
		if p.OrderID != nil && *p.OrderID == orderID {
			payments = append(payments, p)
		}
	}
	sortPayments(payments)
	return payments, nil
}

// GetByDateRange retrieves payments dated within [start, end], date ascending
func (m *MockPaymentRepository) GetByDateRange(start, end *time.Time) ([]*domain.Payment, error) {
	payments := make([]*domain.Payment, 0)
	for _, p := range m.Payments {
		if withinRange(p.PaymentDate, start, end) {
			payments = append(payments, p)
		}
	}
	sortPayments(payments)
	return payments, nil
}

// Update updates an existing payment
func (m *MockPaymentRepository) Update(id int32, data *domain.UpdatePaymentData) (*domain.Payment, error) {
	p, ok := m.Payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	if err := m.checkBalance(data.OrderID, data.AmountReceived, &id); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p.OrderID = data.OrderID
	p.AmountReceived = data.AmountReceived
	p.BankName = data.BankName
	p.PaymentDate = data.PaymentDate
	p.UpdatedAt = &now
	m.fillNames(p)
	return p, nil
}

// Delete removes a payment
func (m *MockPaymentRepository) Delete(id int32) error {
	if _, ok := m.Payments[id]; !ok {
		return domain.ErrPaymentNotFound
	}
	delete(m.Payments, id)
	return nil
}

// SumByOrder sums payments attached to the order, optionally excluding one payment
func (m *MockPaymentRepository) SumByOrder(orderID int32, excludePaymentID *int32) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range m.Payments {
		if p.OrderID == nil || *p.OrderID != orderID {
			continue
		}
		if excludePaymentID != nil && p.ID == *excludePaymentID {
			continue
		}
		total = total.Add(p.AmountReceived)
	}
	return total, nil
}

// SumByOrders sums payments attached to any of the given orders
func (m *MockPaymentRepository) SumByOrders(orderIDs []int32) (decimal.Decimal, error) {
	wanted := make(map[int32]bool, len(orderIDs))
	for _, id := range orderIDs {
		wanted[id] = true
	}
	total := decimal.Zero
	for _, p := range m.Payments {
		if p.OrderID != nil && wanted[*p.OrderID] {
			total = total.Add(p.AmountReceived)
		}
	}
	return total, nil
}

// SumByDateRange sums payments dated within [start, end]
func (m *MockPaymentRepository) SumByDateRange(start, end *time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range m.Payments {
		if withinRange(p.PaymentDate, start, end) {
			total = total.Add(p.AmountReceived)
		}
	}
	return total, nil
}

// checkBalance mirrors the store-level re-check of the no-overpayment invariant.
func (m *MockPaymentRepository) checkBalance(orderID *int32, amount decimal.Decimal, excludePaymentID *int32) error {
	if orderID == nil || m.Orders == nil {
		return nil
	}
	order, ok := m.Orders.Orders[*orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	paid, _ := m.SumByOrder(*orderID, excludePaymentID)
	if paid.Add(amount).GreaterThan(order.OrderAmount) {
		return &domain.OrderBalanceError{
			OrderID:         *orderID,
			OrderAmount:     order.OrderAmount,
			PaidAmount:      paid,
			AttemptedAmount: amount,
		}
	}
	return nil
}

func (m *MockPaymentRepository) fillNames(p *domain.Payment) {
	if m.Clients != nil {
		if c, ok := m.Clients.Clients[p.ClientID]; ok {
			p.ClientName = c.Name
		}
	}
	p.OrderName = "Advance"
	if p.OrderID != nil && m.Orders != nil {
		if o, ok := m.Orders.Orders[*p.OrderID]; ok && o.OrderName != nil {
			p.OrderName = *o.OrderName
		}
	}
}

var _ domain.PaymentRepository = (*MockPaymentRepository)(nil)

// MockExpenseRepository is an in-memory implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses map[int32]*domain.Expense
	NextID   int32
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[int32]*domain.Expense),
		NextID:   1,
	}
}

// Create creates a new expense
func (m *MockExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	e := *expense
	e.ID = m.NextID
	e.CreatedAt = time.Now().UTC()
	m.NextID++
	m.Expenses[e.ID] = &e
	return &e, nil
}

// GetByID retrieves an expense by ID
func (m *MockExpenseRepository) GetByID(id int32) (*domain.Expense, error) {
	if e, ok := m.Expenses[id]; ok {
		return e, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// GetAll retrieves all expenses sorted by spent date ascending
func (m *MockExpenseRepository) GetAll() ([]*domain.Expense, error) {
	expenses := make([]*domain.Expense, 0, len(m.Expenses))
	for _, e := range m.Expenses {
		expenses = append(expenses, e)
	}
	sortExpenses(expenses)
	return expenses, nil
}

// GetByDateRange retrieves expenses dated within [start, end], date ascending
func (m *MockExpenseRepository) GetByDateRange(start, end *time.Time) ([]*domain.Expense, error) {
	expenses := make([]*domain.Expense, 0)
	for _, e := range m.Expenses {
		if withinRange(e.SpentDate, start, end) {
			expenses = append(expenses, e)
		}
	}
	sortExpenses(expenses)
	return expenses, nil
}

// Update updates an existing expense
func (m *MockExpenseRepository) Update(id int32, data *domain.UpdateExpenseData) (*domain.Expense, error) {
	e, ok := m.Expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	now := time.Now().UTC()
	e.Description = data.Description
	e.Category = data.Category
	e.SpentBy = data.SpentBy
	e.Amount = data.Amount
	e.SpentDate = data.SpentDate
	e.UpdatedAt = &now
	return e, nil
}

// Delete removes an expense
func (m *MockExpenseRepository) Delete(id int32) error {
	if _, ok := m.Expenses[id]; !ok {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// GetCategories returns the distinct categories in use, sorted ascending
func (m *MockExpenseRepository) GetCategories() ([]string, error) {
	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, e := range m.Expenses {
		if !seen[e.Category] {
			seen[e.Category] = true
			categories = append(categories, e.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// SumByDateRange sums expenses dated within [start, end]
func (m *MockExpenseRepository) SumByDateRange(start, end *time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range m.Expenses {
		if withinRange(e.SpentDate, start, end) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

var _ domain.ExpenseRepository = (*MockExpenseRepository)(nil)

// NewMockRepositories builds the four mocks wired together so that joins,
// balances and cascades behave like the real store.
func NewMockRepositories() (*MockClientRepository, *MockOrderRepository, *MockPaymentRepository, *MockExpenseRepository) {
	clients := NewMockClientRepository()
	orders := NewMockOrderRepository()
	payments := NewMockPaymentRepository()
	expenses := NewMockExpenseRepository()

	clients.Orders = orders
	clients.Payments = payments
	orders.Payments = payments
	orders.Clients = clients
	payments.Orders = orders
	payments.Clients = clients

	return clients, orders, payments, expenses
}

func withinRange(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

func sortOrders(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].OrderDate.Equal(orders[j].OrderDate) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].OrderDate.Before(orders[j].OrderDate)
	})
}

func sortPayments(payments []*domain.Payment) {
	sort.Slice(payments, func(i, j int) bool {
		if payments[i].PaymentDate.Equal(payments[j].PaymentDate) {
			return payments[i].ID < payments[j].ID
		}
		return payments[i].PaymentDate.Before(payments[j].PaymentDate)
	})
}

func sortExpenses(expenses []*domain.Expense) {
	sort.Slice(expenses, func(i, j int) bool {
		if expenses[i].SpentDate.Equal(expenses[j].SpentDate) {
			return expenses[i].ID < expenses[j].ID
		}
		return expenses[i].SpentDate.Before(expenses[j].SpentDate)
	})
}
