package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/enums"
)

// SupportTicket tracks a customer support request, optionally tied to an
// order.
type SupportTicket struct {
	ID           uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TicketNumber string               `gorm:"column:ticket_number;type:text;not null;uniqueIndex"`
	CustomerID   uuid.UUID            `gorm:"column:customer_id;type:uuid;not null;index"`
	Subject      string               `gorm:"column:subject;not null"`
	Description  string               `gorm:"column:description;not null"`
	Priority     enums.TicketPriority `gorm:"column:priority;type:text;not null;default:'medium'"`
	Status       enums.TicketStatus   `gorm:"column:status;type:text;not null;default:'open'"`
	OrderID      *uuid.UUID           `gorm:"column:order_id;type:uuid"`
	AssignedTo   *uuid.UUID           `gorm:"column:assigned_to;type:uuid"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
