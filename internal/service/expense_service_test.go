package service

import (
	"errors"
	"testing"
	"time"

	"github.com/karobar/karobar-backend/internal/domain"
	"github.com/karobar/karobar-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestCreateExpense_Success(t *testing.T) {
	_, _, _, expenseRepo := testutil.NewMockRepositories()
	expenseService := NewExpenseService(expenseRepo)

	expense, err := expenseService.CreateExpense(CreateExpenseInput{
		Description: "Generator fuel",
		Amount:      decimal.NewFromInt(150),
		Category:    "Fuel",
		SpentBy:     "Ravi",
		SpentDate:   date(2026, time.March, 3),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if expense.Category != "Fuel" {
		t.Errorf("Expected category 'Fuel', got %q", expense.Category)
	}
	if expense.SpentBy != "Ravi" {
		t.Errorf("Expected spent by 'Ravi', got %q", expense.SpentBy)
	}
}

func TestCreateExpense_DefaultCategory(t *testing.T) {
	_, _, _, expenseRepo := testutil.NewMockRepositories()
	expenseService := NewExpenseService(expenseRepo)

	expense, err := expenseService.CreateExpense(CreateExpenseInput{
		Description: "Stationery",
		Amount:      decimal.NewFromInt(20),
		Category:    "   ",
		SpentDate:   date(2026, time.March, 3),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if expense.Category != domain.DefaultExpenseCategory {
		t.Errorf("Expected default category %q, got %q", domain.DefaultExpenseCategory, expense.Category)
	}
}

func TestCreateExpense_EmptyDescription(t *testing.T) {
	_, _, _, expenseRepo := testutil.NewMockRepositories()
	expenseService := NewExpenseService(expenseRepo)

	_, err := expenseService.CreateExpense(CreateExpenseInput{
		Description: "  ",
		Amount:      decimal.NewFromInt(20),
		SpentDate:   date(2026, time.March, 3),
	})
	if !errors.Is(err, domain.ErrDescriptionRequired) {
		t.Fatalf("Expected ErrDescriptionRequired, got %v", err)
	}
}

func TestCreateExpense_InvalidAmount(t *testing.T) {
	_, _, _, expenseRepo := testutil.NewMockRepositories()
	expenseService := NewExpenseService(expenseRepo)

	_, err := expenseService.CreateExpense(CreateExpenseInput{
		Description: "Stationery",
		Amount:      decimal.NewFromInt(-5),
		SpentDate:   date(2026, time.March, 3),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestGetCategories(t *testing.T) {
	_, _, _, expenseRepo := testutil.NewMockRepositories()
	expenseService := NewExpenseService(expenseRepo)

	for _, category := range []string{"Fuel", "Staff", "Fuel", ""} {
		if _, err := expenseService.CreateExpense(CreateExpenseInput{
			Description: "Expense",
			Amount:      decimal.NewFromInt(10),
			Category:    category,
			SpentDate:   date(2026, time.March, 3),
		}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	categories, err := expenseService.GetCategories()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Distinct and sorted; the blank category was replaced by the default
	want := []string{"Fuel", "General", "Staff"}
	if len(categories) != len(want) {
		t.Fatalf("Expected %d categories, got %d: %v", len(want), len(categories), categories)
	}
	for i, category := range want {
		if categories[i] != category {
			t.Errorf("Expected category %q at index %d, got %q", category, i, categories[i])
		}
	}
}
