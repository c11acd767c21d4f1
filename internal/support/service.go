package support

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/enums"
	apperrors "github.com/SafinArnob/E-Shop-Management-System/pkg/errors"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	numberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Service owns support tickets: customers open and read their own,
// admins list, triage and assign.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, req CreateTicketRequest) (*TicketDTO, error)
	Get(ctx context.Context, customerID, ticketID uuid.UUID, isAdmin bool) (*TicketDTO, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) (*TicketListDTO, error)
	ListAll(ctx context.Context, status string, limit, offset int) (*TicketListDTO, error)
	UpdateStatus(ctx context.Context, ticketID uuid.UUID, req UpdateStatusRequest) (*TicketDTO, error)
	Assign(ctx context.Context, ticketID uuid.UUID, req AssignRequest) (*TicketDTO, error)
}

type ticketRepository interface {
	Create(ctx context.Context, ticket *models.SupportTicket) (*models.SupportTicket, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.SupportTicket, int64, error)
	ListAll(ctx context.Context, status enums.TicketStatus, limit, offset int) ([]models.SupportTicket, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.TicketStatus) error
	Assign(ctx context.Context, id, assigneeID uuid.UUID) error
}

type service struct {
	repo ticketRepository
	now  func() time.Time
}

func NewService(repo ticketRepository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("support: repository is required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

// newTicketNumber mirrors the order numbering scheme with a TKT prefix.
func newTicketNumber(at time.Time) (string, error) {
	millis := at.UnixMilli() % 1_000_000
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("support: read random suffix: %w", err)
	}
	for i, b := range buf {
		buf[i] = numberAlphabet[int(b)%len(numberAlphabet)]
	}
	return fmt.Sprintf("TKT-%06d-%s", millis, buf), nil
}

func (s *service) Create(ctx context.Context, customerID uuid.UUID, req CreateTicketRequest) (*TicketDTO, error) {
	priority := enums.TicketPriorityMedium
	if req.Priority != nil {
		parsed, err := enums.ParseTicketPriority(*req.Priority)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, err.Error())
		}
		priority = parsed
	}

	number, err := newTicketNumber(s.now())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to generate ticket number")
	}

	ticket := &models.SupportTicket{
		TicketNumber: number,
		CustomerID:   customerID,
		Subject:      req.Subject,
		Description:  req.Description,
		Priority:     priority,
		Status:       enums.TicketStatusOpen,
		OrderID:      req.OrderID,
	}
	created, err := s.repo.Create(ctx, ticket)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to create ticket")
	}
	dto := FromModel(created)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, customerID, ticketID uuid.UUID, isAdmin bool) (*TicketDTO, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && ticket.CustomerID != customerID {
		return nil, apperrors.New(apperrors.CodeForbidden, "ticket belongs to another customer")
	}
	dto := FromModel(ticket)
	return &dto, nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) (*TicketListDTO, error) {
	limit, offset = clampPage(limit, offset)
	rows, total, err := s.repo.ListByCustomer(ctx, customerID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to list tickets")
	}
	return buildList(rows, total, limit, offset), nil
}

func (s *service) ListAll(ctx context.Context, status string, limit, offset int) (*TicketListDTO, error) {
	var parsed enums.TicketStatus
	if status != "" {
		var err error
		parsed, err = enums.ParseTicketStatus(status)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, err.Error())
		}
	}
	limit, offset = clampPage(limit, offset)
	rows, total, err := s.repo.ListAll(ctx, parsed, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to list tickets")
	}
	return buildList(rows, total, limit, offset), nil
}

func (s *service) UpdateStatus(ctx context.Context, ticketID uuid.UUID, req UpdateStatusRequest) (*TicketDTO, error) {
	status, err := enums.ParseTicketStatus(req.Status)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, err.Error())
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, ticket.ID, status); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to update ticket status")
	}
	ticket.Status = status
	dto := FromModel(ticket)
	return &dto, nil
}

func (s *service) Assign(ctx context.Context, ticketID uuid.UUID, req AssignRequest) (*TicketDTO, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Assign(ctx, ticket.ID, req.AssignedTo); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to assign ticket")
	}
	assignee := req.AssignedTo
	ticket.AssignedTo = &assignee
	if ticket.Status == enums.TicketStatusOpen {
		if err := s.repo.UpdateStatus(ctx, ticket.ID, enums.TicketStatusInProgress); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to update ticket status")
		}
		ticket.Status = enums.TicketStatusInProgress
	}
	dto := FromModel(ticket)
	return &dto, nil
}

func (s *service) loadTicket(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "ticket not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load ticket")
	}
	return ticket, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func buildList(rows []models.SupportTicket, total int64, limit, offset int) *TicketListDTO {
	out := make([]TicketDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return &TicketListDTO{Tickets: out, Total: total, Limit: limit, Offset: offset}
}
