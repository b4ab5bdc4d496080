package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is a customer of the business. Clients are never hard-deleted; the
// IsActive flag is cleared instead so that orders and payments keep their
// historical references.
type Client struct {
	ID        int32      `json:"id"`
	Name      string     `json:"name"`
	Phone     *string    `json:"phone,omitempty"`
	Address   *string    `json:"address,omitempty"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// UpdateClientData holds the mutable fields of a client for a full-record update.
type UpdateClientData struct {
	Name     string
	Phone    *string
	Address  *string
	IsActive bool
}

// ClientBalance pairs total ordered and total paid amounts for one client.
type ClientBalance struct {
	TotalOrdered decimal.Decimal
	TotalPaid    decimal.Decimal
}

// ClientRepository defines persistence operations for clients.
type ClientRepository interface {
	Create(client *Client) (*Client, error)
	GetByID(id int32) (*Client, error)
	GetAll() ([]*Client, error)
	GetAllActive() ([]*Client, error)
	Update(id int32, data *UpdateClientData) (*Client, error)
	SoftDelete(id int32) error
	// ExistsActiveName reports whether an active client already uses the given
	// name, compared case-insensitively.
	ExistsActiveName(name string) (bool, error)
	// GetBalance returns the client's total ordered and paid amounts across all time.
	GetBalance(clientID int32) (*ClientBalance, error)
}
