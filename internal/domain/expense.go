package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultExpenseCategory is applied when an expense is created with a blank category.
const DefaultExpenseCategory = "General"

// Expense is a cash outflow recorded against a category and a spender.
type Expense struct {
	ID          int32           `json:"id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	SpentBy     string          `json:"spentBy"`
	Amount      decimal.Decimal `json:"amount"`
	SpentDate   time.Time       `json:"spentDate"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

// UpdateExpenseData holds the mutable fields of an expense for a full-record update.
type UpdateExpenseData struct {
	Description string
	Category    string
	SpentBy     string
	Amount      decimal.Decimal
	SpentDate   time.Time
}

// ExpenseRepository defines persistence operations for expenses.
type ExpenseRepository interface {
	Create(expense *Expense) (*Expense, error)
	GetByID(id int32) (*Expense, error)
	GetAll() ([]*Expense, error)
	// GetByDateRange returns expenses whose spent date falls in [start, end],
	// ordered by spent date ascending. Nil bounds mean all time.
	GetByDateRange(start, end *time.Time) ([]*Expense, error)
	Update(id int32, data *UpdateExpenseData) (*Expense, error)
	Delete(id int32) error
	// GetCategories returns the distinct categories in use, sorted ascending.
	GetCategories() ([]string, error)
	// SumByDateRange sums expenses dated within [start, end]. Nil bounds mean all time.
	SumByDateRange(start, end *time.Time) (decimal.Decimal, error)
}
