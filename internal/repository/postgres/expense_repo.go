package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/karobar/karobar-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = "id, description, category, spent_by, amount, spent_date, created_at, updated_at"

// Create creates a new expense
func (r *ExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid expense amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO expenses (description, category, spent_by, amount, spent_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+expenseColumns,
		expense.Description, expense.Category, expense.SpentBy, amount,
		pgtype.Date{Time: expense.SpentDate, Valid: true})

	return scanExpense(row)
}

// GetByID retrieves an expense by its ID
func (r *ExpenseRepository) GetByID(id int32) (*domain.Expense, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)
	expense, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

// GetAll retrieves all expenses, newest first
func (r *ExpenseRepository) GetAll() ([]*domain.Expense, error) {
	return r.list(`SELECT ` + expenseColumns + ` FROM expenses ORDER BY spent_date DESC`)
}

// GetByDateRange retrieves expenses dated within [start, end], oldest first.
// Nil bounds mean all time.
func (r *ExpenseRepository) GetByDateRange(start, end *time.Time) ([]*domain.Expense, error) {
	return r.list(`
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE ($1::date IS NULL OR spent_date >= $1)
		  AND ($2::date IS NULL OR spent_date <= $2)
		ORDER BY spent_date ASC`,
		dateFromPtr(start), dateFromPtr(end))
}

func (r *ExpenseRepository) list(query string, args ...any) ([]*domain.Expense, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// Update overwrites an expense's mutable fields and stamps the update time
func (r *ExpenseRepository) Update(id int32, data *domain.UpdateExpenseData) (*domain.Expense, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid expense amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE expenses
		SET description = $2, category = $3, spent_by = $4, amount = $5, spent_date = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING `+expenseColumns,
		id, data.Description, data.Category, data.SpentBy, amount,
		pgtype.Date{Time: data.SpentDate, Valid: true})

	expense, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

// Delete hard-deletes an expense
func (r *ExpenseRepository) Delete(id int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// GetCategories returns the distinct categories in use, sorted ascending
func (r *ExpenseRepository) GetCategories() ([]string, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM expenses ORDER BY category ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// SumByDateRange sums expenses dated within [start, end]. Nil bounds mean all time.
func (r *ExpenseRepository) SumByDateRange(start, end *time.Time) (decimal.Decimal, error) {
	ctx := context.Background()

	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE ($1::date IS NULL OR spent_date >= $1)
		  AND ($2::date IS NULL OR spent_date <= $2)`,
		dateFromPtr(start), dateFromPtr(end)).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		expense   domain.Expense
		amount    pgtype.Numeric
		spentDate pgtype.Date
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&expense.ID, &expense.Description, &expense.Category, &expense.SpentBy,
		&amount, &spentDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	expense.Amount = pgNumericToDecimal(amount)
	expense.SpentDate = spentDate.Time
	expense.CreatedAt = createdAt.Time
	expense.UpdatedAt = timestampToPtr(updatedAt)
	return &expense, nil
}
