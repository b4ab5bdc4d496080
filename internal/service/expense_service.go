package service

import (
	"strings"
	"time"

	"github.com/karobar/karobar-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ExpenseService handles expense business logic
type ExpenseService struct {
	expenseRepo domain.ExpenseRepository
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo}
}

// CreateExpenseInput holds the input for recording an expense
type CreateExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	SpentBy     string
	SpentDate   time.Time
}

// CreateExpense records a new expense. A blank category falls back to "General".
func (s *ExpenseService) CreateExpense(input CreateExpenseInput) (*domain.Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	expense := &domain.Expense{
		Description: description,
		Amount:      input.Amount,
		Category:    resolveCategory(input.Category),
		SpentBy:     strings.TrimSpace(input.SpentBy),
		SpentDate:   input.SpentDate,
	}

	return s.expenseRepo.Create(expense)
}

// UpdateExpenseInput holds the input for updating an expense
type UpdateExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	SpentBy     string
	SpentDate   time.Time
}

// UpdateExpense overwrites an expense's mutable fields
func (s *ExpenseService) UpdateExpense(id int32, input UpdateExpenseInput) (*domain.Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	return s.expenseRepo.Update(id, &domain.UpdateExpenseData{
		Description: description,
		Amount:      input.Amount,
		Category:    resolveCategory(input.Category),
		SpentBy:     strings.TrimSpace(input.SpentBy),
		SpentDate:   input.SpentDate,
	})
}

// DeleteExpense hard-deletes an expense
func (s *ExpenseService) DeleteExpense(id int32) error {
	return s.expenseRepo.Delete(id)
}

// GetExpenseByID retrieves an expense by ID
func (s *ExpenseService) GetExpenseByID(id int32) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(id)
}

// GetExpenses retrieves all expenses
func (s *ExpenseService) GetExpenses() ([]*domain.Expense, error) {
	return s.expenseRepo.GetAll()
}

// GetCategories lists the distinct categories in use
func (s *ExpenseService) GetCategories() ([]string, error) {
	return s.expenseRepo.GetCategories()
}

func resolveCategory(category string) string {
	c := strings.TrimSpace(category)
	if c == "" {
		return domain.DefaultExpenseCategory
	}
	return c
}
