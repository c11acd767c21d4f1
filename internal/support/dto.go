package support

import (
	"time"

	"github.com/google/uuid"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/enums"
)

// TicketDTO is the public projection of a support ticket.
type TicketDTO struct {
	ID           uuid.UUID            `json:"id"`
	TicketNumber string               `json:"ticket_number"`
	CustomerID   uuid.UUID            `json:"customer_id"`
	Subject      string               `json:"subject"`
	Description  string               `json:"description"`
	Priority     enums.TicketPriority `json:"priority"`
	Status       enums.TicketStatus   `json:"status"`
	OrderID      *uuid.UUID           `json:"order_id,omitempty"`
	AssignedTo   *uuid.UUID           `json:"assigned_to,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// CreateTicketRequest opens a new ticket for the authenticated customer.
type CreateTicketRequest struct {
	Subject     string     `json:"subject" validate:"required"`
	Description string     `json:"description" validate:"required"`
	Priority    *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	OrderID     *uuid.UUID `json:"order_id,omitempty"`
}

// UpdateStatusRequest moves a ticket through its lifecycle.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress resolved closed"`
}

// AssignRequest routes a ticket to a staff member.
type AssignRequest struct {
	AssignedTo uuid.UUID `json:"assigned_to" validate:"required"`
}

// TicketListDTO wraps a page of tickets.
type TicketListDTO struct {
	Tickets []TicketDTO `json:"tickets"`
	Total   int64       `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}

// FromModel maps a persistence model onto the public DTO.
func FromModel(ticket *models.SupportTicket) TicketDTO {
	if ticket == nil {
		return TicketDTO{}
	}
	return TicketDTO{
		ID:           ticket.ID,
		TicketNumber: ticket.TicketNumber,
		CustomerID:   ticket.CustomerID,
		Subject:      ticket.Subject,
		Description:  ticket.Description,
		Priority:     ticket.Priority,
		Status:       ticket.Status,
		OrderID:      ticket.OrderID,
		AssignedTo:   ticket.AssignedTo,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}
