package service

import (
	"strings"

	"github.com/karobar/karobar-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ClientService handles client-related business logic
type ClientService struct {
	clientRepo domain.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo domain.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// CreateClientInput holds the input for creating a client
type CreateClientInput struct {
	Name    string
	Phone   *string
	Address *string
}

// CreateClient creates a new active client. The name must not collide with
// another active client's name; soft-deleted clients free their name up.
func (s *ClientService) CreateClient(input CreateClientInput) (*domain.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxClientNameLength {
		return nil, domain.ErrNameTooLong
	}

	taken, err := s.clientRepo.ExistsActiveName(name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrClientNameTaken
	}

	client := &domain.Client{
		Name:     name,
		Phone:    trimPtr(input.Phone),
		Address:  trimPtr(input.Address),
		IsActive: true,
	}

	return s.clientRepo.Create(client)
}

// UpdateClientInput holds the input for updating a client
type UpdateClientInput struct {
	Name     string
	Phone    *string
	Address  *string
	IsActive bool
}

// UpdateClient overwrites a client's mutable fields
func (s *ClientService) UpdateClient(id int32, input UpdateClientInput) (*domain.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxClientNameLength {
		return nil, domain.ErrNameTooLong
	}

	return s.clientRepo.Update(id, &domain.UpdateClientData{
		Name:     name,
		Phone:    trimPtr(input.Phone),
		Address:  trimPtr(input.Address),
		IsActive: input.IsActive,
	})
}

// DeleteClient soft-deletes a client. Orders and payments keep their references.
func (s *ClientService) DeleteClient(id int32) error {
	return s.clientRepo.SoftDelete(id)
}

// GetClientByID retrieves a client by ID
func (s *ClientService) GetClientByID(id int32) (*domain.Client, error) {
	return s.clientRepo.GetByID(id)
}

// GetClients retrieves all clients, optionally restricted to active ones
func (s *ClientService) GetClients(activeOnly bool) ([]*domain.Client, error) {
	if activeOnly {
		return s.clientRepo.GetAllActive()
	}
	return s.clientRepo.GetAll()
}

// GetOutstandingAmount returns the client's unpaid balance: total ordered minus
// total paid, across all time. A client with no records owes zero.
func (s *ClientService) GetOutstandingAmount(clientID int32) (decimal.Decimal, error) {
	if _, err := s.clientRepo.GetByID(clientID); err != nil {
		return decimal.Zero, err
	}

	balance, err := s.clientRepo.GetBalance(clientID)
	if err != nil {
		return decimal.Zero, err
	}
	return balance.TotalOrdered.Sub(balance.TotalPaid), nil
}

// trimPtr trims the pointed-at string and collapses blank values to nil
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
