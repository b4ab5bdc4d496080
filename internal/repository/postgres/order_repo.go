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

// OrderRepository implements domain.OrderRepository using PostgreSQL
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `o.id, o.client_id, o.order_name, o.order_date, o.delivered_date, o.order_amount,
	o.status, o.size, o.uom, o.quantity, o.material_no, o.costing_layer, o.color,
	o.material_spec, o.paint_spec, o.quality_spec, o.work_nature_spec, o.durability_spec,
	o.modeling_last_date, o.fiber_start_date, o.order_by, o.modeling_by, o.fiber_by,
	o.image_path, o.created_at, o.updated_at, c.name`

const orderSelect = `SELECT ` + orderColumns + ` FROM orders o JOIN clients c ON c.id = o.client_id`

// Create creates a new order
func (r *OrderRepository) Create(order *domain.Order) (*domain.Order, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(order.OrderAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid order amount: %w", err)
	}

	var id int32
	err = r.pool.QueryRow(ctx, `
		INSERT INTO orders (
			client_id, order_name, order_date, delivered_date, order_amount, status,
			size, uom, quantity, material_no, costing_layer, color,
			material_spec, paint_spec, quality_spec, work_nature_spec, durability_spec,
			modeling_last_date, fiber_start_date, order_by, modeling_by, fiber_by, image_path
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23
		) RETURNING id`,
		order.ClientID, textFromPtr(order.OrderName),
		pgtype.Date{Time: order.OrderDate, Valid: true}, dateFromPtr(order.DeliveredDate),
		amount, string(order.Status),
		textFromPtr(order.Size), textFromPtr(order.UOM), order.Quantity,
		textFromPtr(order.MaterialNo), textFromPtr(order.CostingLayer), textFromPtr(order.Color),
		textFromPtr(order.MaterialSpec), textFromPtr(order.PaintSpec), textFromPtr(order.QualitySpec),
		textFromPtr(order.WorkNatureSpec), textFromPtr(order.DurabilitySpec),
		dateFromPtr(order.ModelingLastDate), dateFromPtr(order.FiberStartDate),
		textFromPtr(order.OrderBy), textFromPtr(order.ModelingBy), textFromPtr(order.FiberBy),
		textFromPtr(order.ImagePath)).Scan(&id)
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves an order with its client name
func (r *OrderRepository) GetByID(id int32) (*domain.Order, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// GetAll retrieves all orders, newest first
func (r *OrderRepository) GetAll() ([]*domain.Order, error) {
	return r.list(orderSelect + ` ORDER BY o.order_date DESC`)
}

// GetByClient retrieves a client's orders, newest first
func (r *OrderRepository) GetByClient(clientID int32) ([]*domain.Order, error) {
	return r.list(orderSelect+` WHERE o.client_id = $1 ORDER BY o.order_date DESC`, clientID)
}

// GetByDateRange retrieves orders dated within [start, end], oldest first.
// Nil bounds mean all time.
func (r *OrderRepository) GetByDateRange(start, end *time.Time) ([]*domain.Order, error) {
	return r.list(orderSelect+`
		WHERE ($1::date IS NULL OR o.order_date >= $1)
		  AND ($2::date IS NULL OR o.order_date <= $2)
		ORDER BY o.order_date ASC`,
		dateFromPtr(start), dateFromPtr(end))
}

func (r *OrderRepository) list(query string, args ...any) ([]*domain.Order, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// Update overwrites an order's mutable fields and stamps the update time
func (r *OrderRepository) Update(id int32, data *domain.UpdateOrderData) (*domain.Order, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(data.OrderAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid order amount: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET
			order_name = $2, order_date = $3, delivered_date = $4, order_amount = $5, status = $6,
			size = $7, uom = $8, quantity = $9, material_no = $10, costing_layer = $11, color = $12,
			material_spec = $13, paint_spec = $14, quality_spec = $15, work_nature_spec = $16,
			durability_spec = $17, modeling_last_date = $18, fiber_start_date = $19,
			order_by = $20, modeling_by = $21, fiber_by = $22, image_path = $23,
			updated_at = NOW()
		WHERE id = $1`,
		id, textFromPtr(data.OrderName),
		pgtype.Date{Time: data.OrderDate, Valid: true}, dateFromPtr(data.DeliveredDate),
		amount, string(data.Status),
		textFromPtr(data.Size), textFromPtr(data.UOM), data.Quantity,
		textFromPtr(data.MaterialNo), textFromPtr(data.CostingLayer), textFromPtr(data.Color),
		textFromPtr(data.MaterialSpec), textFromPtr(data.PaintSpec), textFromPtr(data.QualitySpec),
		textFromPtr(data.WorkNatureSpec), textFromPtr(data.DurabilitySpec),
		dateFromPtr(data.ModelingLastDate), dateFromPtr(data.FiberStartDate),
		textFromPtr(data.OrderBy), textFromPtr(data.ModelingBy), textFromPtr(data.FiberBy),
		textFromPtr(data.ImagePath))
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrOrderNotFound
	}

	return r.GetByID(id)
}

// Delete hard-deletes the order. Payments that referenced it keep their rows
// with the order reference cleared; both statements run in one transaction.
func (r *OrderRepository) Delete(id int32) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE payments SET order_id = NULL WHERE order_id = $1`, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	return tx.Commit(ctx)
}

// MarkDelivered stamps the delivered date and flips the status. Terminal transition.
func (r *OrderRepository) MarkDelivered(id int32, deliveredDate time.Time) (*domain.Order, error) {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET delivered_date = $2, status = $3, updated_at = NOW() WHERE id = $1`,
		id, pgtype.Date{Time: deliveredDate, Valid: true}, string(domain.OrderStatusDelivered))
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrOrderNotFound
	}

	return r.GetByID(id)
}

// SumAmountByStatus sums order amounts for orders in the given status
func (r *OrderRepository) SumAmountByStatus(status domain.OrderStatus) (decimal.Decimal, error) {
	ctx := context.Background()

	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(order_amount), 0) FROM orders WHERE status = $1`,
		string(status)).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order            domain.Order
		orderName        pgtype.Text
		orderDate        pgtype.Date
		deliveredDate    pgtype.Date
		amount           pgtype.Numeric
		status           string
		size             pgtype.Text
		uom              pgtype.Text
		materialNo       pgtype.Text
		costingLayer     pgtype.Text
		color            pgtype.Text
		materialSpec     pgtype.Text
		paintSpec        pgtype.Text
		qualitySpec      pgtype.Text
		workNatureSpec   pgtype.Text
		durabilitySpec   pgtype.Text
		modelingLastDate pgtype.Date
		fiberStartDate   pgtype.Date
		orderBy          pgtype.Text
		modelingBy       pgtype.Text
		fiberBy          pgtype.Text
		imagePath        pgtype.Text
		createdAt        pgtype.Timestamptz
		updatedAt        pgtype.Timestamptz
	)

	err := row.Scan(
		&order.ID, &order.ClientID, &orderName, &orderDate, &deliveredDate, &amount,
		&status, &size, &uom, &order.Quantity, &materialNo, &costingLayer, &color,
		&materialSpec, &paintSpec, &qualitySpec, &workNatureSpec, &durabilitySpec,
		&modelingLastDate, &fiberStartDate, &orderBy, &modelingBy, &fiberBy,
		&imagePath, &createdAt, &updatedAt, &order.ClientName)
	if err != nil {
		return nil, err
	}

	order.OrderName = textToPtr(orderName)
	order.OrderDate = orderDate.Time
	order.DeliveredDate = dateToPtr(deliveredDate)
	order.OrderAmount = pgNumericToDecimal(amount)
	order.Status = domain.OrderStatus(status)
	order.Size = textToPtr(size)
	order.UOM = textToPtr(uom)
	order.MaterialNo = textToPtr(materialNo)
	order.CostingLayer = textToPtr(costingLayer)
	order.Color = textToPtr(color)
	order.MaterialSpec = textToPtr(materialSpec)
	order.PaintSpec = textToPtr(paintSpec)
	order.QualitySpec = textToPtr(qualitySpec)
	order.WorkNatureSpec = textToPtr(workNatureSpec)
	order.DurabilitySpec = textToPtr(durabilitySpec)
	order.ModelingLastDate = dateToPtr(modelingLastDate)
	order.FiberStartDate = dateToPtr(fiberStartDate)
	order.OrderBy = textToPtr(orderBy)
	order.ModelingBy = textToPtr(modelingBy)
	order.FiberBy = textToPtr(fiberBy)
	order.ImagePath = textToPtr(imagePath)
	order.CreatedAt = createdAt.Time
	order.UpdatedAt = timestampToPtr(updatedAt)
	return &order, nil
}
