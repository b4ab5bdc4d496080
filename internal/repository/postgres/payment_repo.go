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

// PaymentRepository implements domain.PaymentRepository using PostgreSQL
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `p.id, p.client_id, p.order_id, p.amount_received, p.bank_name,
	p.payment_date, p.created_at, p.updated_at, c.name, o.order_name`

const paymentSelect = `SELECT ` + paymentColumns + `
	FROM payments p
	JOIN clients c ON c.id = p.client_id
	LEFT JOIN orders o ON o.id = p.order_id`

// Create inserts a payment. When the payment is attached to an order, the
// remaining-balance check runs inside the same transaction as the insert, with
// the order row locked, so no competing payment can slip between check and commit.
func (r *PaymentRepository) Create(payment *domain.Payment) (*domain.Payment, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(payment.AmountReceived)
	if err != nil {
		return nil, fmt.Errorf("invalid payment amount: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if payment.OrderID != nil {
		if err := checkOrderBalance(ctx, tx, *payment.OrderID, payment.AmountReceived, nil); err != nil {
			return nil, err
		}
	}

	var id int32
	err = tx.QueryRow(ctx, `
		INSERT INTO payments (client_id, order_id, amount_received, bank_name, payment_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		payment.ClientID, int4FromPtr(payment.OrderID), amount,
		textFromPtr(payment.BankName), pgtype.Date{Time: payment.PaymentDate, Valid: true}).Scan(&id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves a payment with its client and order names
func (r *PaymentRepository) GetByID(id int32) (*domain.Payment, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, paymentSelect+` WHERE p.id = $1`, id)
	payment, err := scanPayment(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// GetAll retrieves all payments, newest first
func (r *PaymentRepository) GetAll() ([]*domain.Payment, error) {
	return r.list(paymentSelect + ` ORDER BY p.payment_date DESC`)
}

// GetByClient retrieves a client's payments, newest first
func (r *PaymentRepository) GetByClient(clientID int32) ([]*domain.Payment, error) {
	return r.list(paymentSelect+` WHERE p.client_id = $1 ORDER BY p.payment_date DESC`, clientID)
}

// GetByOrder retrieves the payments attached to an order, newest first
func (r *PaymentRepository) GetByOrder(orderID int32) ([]*domain.Payment, error) {
	return r.list(paymentSelect+` WHERE p.order_id = $1 ORDER BY p.payment_date DESC`, orderID)
}

// GetByDateRange retrieves payments dated within [start, end], oldest first.
// Nil bounds mean all time.
func (r *PaymentRepository) GetByDateRange(start, end *time.Time) ([]*domain.Payment, error) {
	return r.list(paymentSelect+`
		WHERE ($1::date IS NULL OR p.payment_date >= $1)
		  AND ($2::date IS NULL OR p.payment_date <= $2)
		ORDER BY p.payment_date ASC`,
		dateFromPtr(start), dateFromPtr(end))
}

func (r *PaymentRepository) list(query string, args ...any) ([]*domain.Payment, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// Update overwrites a payment's mutable fields, re-running the balance check
// (excluding the payment itself) in the same transaction as the write.
func (r *PaymentRepository) Update(id int32, data *domain.UpdatePaymentData) (*domain.Payment, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(data.AmountReceived)
	if err != nil {
		return nil, fmt.Errorf("invalid payment amount: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if data.OrderID != nil {
		if err := checkOrderBalance(ctx, tx, *data.OrderID, data.AmountReceived, &id); err != nil {
			return nil, err
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE payments
		SET order_id = $2, amount_received = $3, bank_name = $4, payment_date = $5, updated_at = NOW()
		WHERE id = $1`,
		id, int4FromPtr(data.OrderID), amount,
		textFromPtr(data.BankName), pgtype.Date{Time: data.PaymentDate, Valid: true})
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrPaymentNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// Delete hard-deletes a payment
func (r *PaymentRepository) Delete(id int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

// SumByOrder sums payments attached to an order, optionally excluding one payment
func (r *PaymentRepository) SumByOrder(orderID int32, excludePaymentID *int32) (decimal.Decimal, error) {
	ctx := context.Background()

	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_received), 0)
		FROM payments
		WHERE order_id = $1 AND ($2::int IS NULL OR id <> $2)`,
		orderID, int4FromPtr(excludePaymentID)).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

// SumByOrders sums payments attached to any of the given orders, regardless of date
func (r *PaymentRepository) SumByOrders(orderIDs []int32) (decimal.Decimal, error) {
	if len(orderIDs) == 0 {
		return decimal.Zero, nil
	}
	ctx := context.Background()

	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_received), 0)
		FROM payments
		WHERE order_id = ANY($1)`,
		orderIDs).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

// SumByDateRange sums payments dated within [start, end]. Nil bounds mean all time.
func (r *PaymentRepository) SumByDateRange(start, end *time.Time) (decimal.Decimal, error) {
	ctx := context.Background()

	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_received), 0)
		FROM payments
		WHERE ($1::date IS NULL OR payment_date >= $1)
		  AND ($2::date IS NULL OR payment_date <= $2)`,
		dateFromPtr(start), dateFromPtr(end)).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

// checkOrderBalance verifies, with the order row locked, that adding amount to
// the order's other payments stays within the order total.
func checkOrderBalance(ctx context.Context, tx pgx.Tx, orderID int32, amount decimal.Decimal, excludePaymentID *int32) error {
	var orderAmount pgtype.Numeric
	err := tx.QueryRow(ctx, `SELECT order_amount FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&orderAmount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.ErrOrderNotFound
		}
		return err
	}

	var paid pgtype.Numeric
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_received), 0)
		FROM payments
		WHERE order_id = $1 AND ($2::int IS NULL OR id <> $2)`,
		orderID, int4FromPtr(excludePaymentID)).Scan(&paid)
	if err != nil {
		return err
	}

	total := pgNumericToDecimal(orderAmount)
	paidTotal := pgNumericToDecimal(paid)
	if paidTotal.Add(amount).GreaterThan(total) {
		return &domain.OrderBalanceError{
			OrderID:         orderID,
			OrderAmount:     total,
			PaidAmount:      paidTotal,
			AttemptedAmount: amount,
		}
	}
	return nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		payment     domain.Payment
		orderID     pgtype.Int4
		amount      pgtype.Numeric
		bankName    pgtype.Text
		paymentDate pgtype.Date
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
		orderName   pgtype.Text
	)

	err := row.Scan(&payment.ID, &payment.ClientID, &orderID, &amount, &bankName,
		&paymentDate, &createdAt, &updatedAt, &payment.ClientName, &orderName)
	if err != nil {
		return nil, err
	}

	payment.OrderID = int4ToPtr(orderID)
	payment.AmountReceived = pgNumericToDecimal(amount)
	payment.BankName = textToPtr(bankName)
	payment.PaymentDate = paymentDate.Time
	payment.CreatedAt = createdAt.Time
	payment.UpdatedAt = timestampToPtr(updatedAt)

	// Unattached payments read as advances
	switch {
	case payment.OrderID == nil:
		payment.OrderName = "Advance"
	case orderName.Valid:
		payment.OrderName = orderName.String
	default:
		payment.OrderName = fmt.Sprintf("Order #%d", *payment.OrderID)
	}
	return &payment, nil
}
