package support

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/enums"
)

// Repository persists support tickets.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, ticket *models.SupportTicket) (*models.SupportTicket, error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.SupportTicket, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Where("customer_id = ?", customerID)
	return r.page(query, limit, offset)
}

// ListAll is the admin view; status filters the result when non-empty.
func (r *Repository) ListAll(ctx context.Context, status enums.TicketStatus, limit, offset int) ([]models.SupportTicket, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SupportTicket{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return r.page(query, limit, offset)
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.TicketStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (r *Repository) Assign(ctx context.Context, id, assigneeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.SupportTicket{}).
		Where("id = ?", id).
		Update("assigned_to", assigneeID).
		Error
}

func (r *Repository) page(query *gorm.DB, limit, offset int) ([]models.SupportTicket, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.SupportTicket
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
