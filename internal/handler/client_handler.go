package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/karobar/karobar-backend/internal/domain"
	"github.com/karobar/karobar-backend/internal/service"
	"github.com/karobar/karobar-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ClientHandler handles client-related HTTP requests
type ClientHandler struct {
	clientService *service.ClientService
	publisher     websocket.EventPublisher
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *service.ClientService, publisher websocket.EventPublisher) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		publisher:     publisher,
	}
}

// CreateClientRequest represents the create client request body
type CreateClientRequest struct {
	Name    string  `json:"name"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// UpdateClientRequest represents the update client request body
type UpdateClientRequest struct {
	Name     string  `json:"name"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	IsActive bool    `json:"isActive"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID        int32   `json:"id"`
	Name      string  `json:"name"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	IsActive  bool    `json:"isActive"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt,omitempty"`
}

// OutstandingResponse represents a client's outstanding balance
type OutstandingResponse struct {
	ClientID          int32  `json:"clientId"`
	OutstandingAmount string `json:"outstandingAmount"`
}

// CreateClient handles POST /api/v1/clients
func (h *ClientHandler) CreateClient(c echo.Context) error {
	var req CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	client, err := h.clientService.CreateClient(service.CreateClientInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrClientNameTaken) {
			return NewConflictError(c, "An active client with this name already exists")
		}
		log.Error().Err(err).Msg("Failed to create client")
		return NewInternalError(c, "Failed to create client")
	}

	log.Info().Int32("client_id", client.ID).Str("name", client.Name).Msg("Client created")
	h.publisher.Publish(websocket.ClientCreated(toClientResponse(client)))

	return c.JSON(http.StatusCreated, toClientResponse(client))
}

// GetClients handles GET /api/v1/clients
func (h *ClientHandler) GetClients(c echo.Context) error {
	activeOnly := c.QueryParam("activeOnly") == "true"

	clients, err := h.clientService.GetClients(activeOnly)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get clients")
		return NewInternalError(c, "Failed to get clients")
	}

	response := make([]ClientResponse, len(clients))
	for i, client := range clients {
		response[i] = toClientResponse(client)
	}
	return c.JSON(http.StatusOK, response)
}

// GetClient handles GET /api/v1/clients/:id
func (h *ClientHandler) GetClient(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	client, err := h.clientService.GetClientByID(int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Int("client_id", id).Msg("Failed to get client")
		return NewInternalError(c, "Failed to get client")
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}

// UpdateClient handles PUT /api/v1/clients/:id
func (h *ClientHandler) UpdateClient(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	var req UpdateClientRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	client, err := h.clientService.UpdateClient(int32(id), service.UpdateClientInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: req.IsActive,
	})
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		log.Error().Err(err).Int("client_id", id).Msg("Failed to update client")
		return NewInternalError(c, "Failed to update client")
	}

	log.Info().Int32("client_id", client.ID).Str("name", client.Name).Msg("Client updated")
	h.publisher.Publish(websocket.ClientUpdated(toClientResponse(client)))

	return c.JSON(http.StatusOK, toClientResponse(client))
}

// DeleteClient handles DELETE /api/v1/clients/:id
func (h *ClientHandler) DeleteClient(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	if err := h.clientService.DeleteClient(int32(id)); err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Int("client_id", id).Msg("Failed to delete client")
		return NewInternalError(c, "Failed to delete client")
	}

	log.Info().Int("client_id", id).Msg("Client deleted (soft)")
	h.publisher.Publish(websocket.ClientDeleted(map[string]int{"id": id}))

	return c.NoContent(http.StatusNoContent)
}

// GetOutstanding handles GET /api/v1/clients/:id/outstanding
func (h *ClientHandler) GetOutstanding(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	outstanding, err := h.clientService.GetOutstandingAmount(int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Int("client_id", id).Msg("Failed to get outstanding amount")
		return NewInternalError(c, "Failed to get outstanding amount")
	}

	return c.JSON(http.StatusOK, OutstandingResponse{
		ClientID:          int32(id),
		OutstandingAmount: outstanding.StringFixed(2),
	})
}

func toClientResponse(client *domain.Client) ClientResponse {
	resp := ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Phone:     client.Phone,
		Address:   client.Address,
		IsActive:  client.IsActive,
		CreatedAt: client.CreatedAt.Format(time.RFC3339),
	}
	if client.UpdatedAt != nil {
		updatedAt := client.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
