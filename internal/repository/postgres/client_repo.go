package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/karobar/karobar-backend/internal/domain"
)

// ClientRepository implements domain.ClientRepository using PostgreSQL
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

const clientColumns = "id, name, phone, address, is_active, created_at, updated_at"

// Create creates a new client
func (r *ClientRepository) Create(client *domain.Client) (*domain.Client, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO clients (name, phone, address, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING `+clientColumns,
		client.Name, textFromPtr(client.Phone), textFromPtr(client.Address))

	return scanClient(row)
}

// GetByID retrieves a client by its ID
func (r *ClientRepository) GetByID(id int32) (*domain.Client, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)

	client, err := scanClient(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// GetAll retrieves all clients ordered by name
func (r *ClientRepository) GetAll() ([]*domain.Client, error) {
	return r.list(`SELECT ` + clientColumns + ` FROM clients ORDER BY name ASC`)
}

// GetAllActive retrieves all active clients ordered by name
func (r *ClientRepository) GetAllActive() ([]*domain.Client, error) {
	return r.list(`SELECT ` + clientColumns + ` FROM clients WHERE is_active ORDER BY name ASC`)
}

func (r *ClientRepository) list(query string) ([]*domain.Client, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

// Update overwrites a client's mutable fields and stamps the update time
func (r *ClientRepository) Update(id int32, data *domain.UpdateClientData) (*domain.Client, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE clients
		SET name = $2, phone = $3, address = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+clientColumns,
		id, data.Name, textFromPtr(data.Phone), textFromPtr(data.Address), data.IsActive)

	client, err := scanClient(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// SoftDelete clears the active flag, keeping the record and its references
func (r *ClientRepository) SoftDelete(id int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE clients SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

// ExistsActiveName reports whether an active client already uses the name, case-insensitively
func (r *ClientRepository) ExistsActiveName(name string) (bool, error) {
	ctx := context.Background()

	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM clients WHERE LOWER(name) = LOWER($1) AND is_active)`,
		name).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// GetBalance returns the client's all-time ordered and paid totals
func (r *ClientRepository) GetBalance(clientID int32) (*domain.ClientBalance, error) {
	ctx := context.Background()

	var ordered, paid pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE((SELECT SUM(order_amount) FROM orders WHERE client_id = $1), 0),
			COALESCE((SELECT SUM(amount_received) FROM payments WHERE client_id = $1), 0)`,
		clientID).Scan(&ordered, &paid)
	if err != nil {
		return nil, err
	}

	return &domain.ClientBalance{
		TotalOrdered: pgNumericToDecimal(ordered),
		TotalPaid:    pgNumericToDecimal(paid),
	}, nil
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var (
		client    domain.Client
		phone     pgtype.Text
		address   pgtype.Text
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&client.ID, &client.Name, &phone, &address, &client.IsActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	client.Phone = textToPtr(phone)
	client.Address = textToPtr(address)
	client.CreatedAt = createdAt.Time
	client.UpdatedAt = timestampToPtr(updatedAt)
	return &client, nil
}
