package support

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SafinArnob/E-Shop-Management-System/pkg/db/models"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/enums"
	pkgerrors "github.com/SafinArnob/E-Shop-Management-System/pkg/errors"
)

type stubTicketRepo struct {
	byID map[uuid.UUID]*models.SupportTicket
}

func newStubTicketRepo(existing ...*models.SupportTicket) *stubTicketRepo {
	repo := &stubTicketRepo{byID: map[uuid.UUID]*models.SupportTicket{}}
	for _, ticket := range existing {
		repo.byID[ticket.ID] = ticket
	}
	return repo
}

func (s *stubTicketRepo) Create(ctx context.Context, ticket *models.SupportTicket) (*models.SupportTicket, error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	s.byID[ticket.ID] = ticket
	return ticket, nil
}

func (s *stubTicketRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	if ticket, ok := s.byID[id]; ok {
		return ticket, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTicketRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.SupportTicket, int64, error) {
	var out []models.SupportTicket
	for _, ticket := range s.byID {
		if ticket.CustomerID == customerID {
			out = append(out, *ticket)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubTicketRepo) ListAll(ctx context.Context, status enums.TicketStatus, limit, offset int) ([]models.SupportTicket, int64, error) {
	var out []models.SupportTicket
	for _, ticket := range s.byID {
		if status == "" || ticket.Status == status {
			out = append(out, *ticket)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubTicketRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.TicketStatus) error {
	ticket, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ticket.Status = status
	return nil
}

func (s *stubTicketRepo) Assign(ctx context.Context, id, assigneeID uuid.UUID) error {
	ticket, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ticket.AssignedTo = &assigneeID
	return nil
}

func buildTicketService(t *testing.T, repo *stubTicketRepo) Service {
	t.Helper()
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestServiceCreateTicketDefaults(t *testing.T) {
	svc := buildTicketService(t, newStubTicketRepo())
	customerID := uuid.New()

	dto, err := svc.Create(context.Background(), customerID, CreateTicketRequest{
		Subject:     "Order never arrived",
		Description: "It has been two weeks.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(dto.TicketNumber, "TKT-") {
		t.Fatalf("unexpected ticket number %q", dto.TicketNumber)
	}
	if dto.Priority != enums.TicketPriorityMedium {
		t.Fatalf("expected default medium priority, got %s", dto.Priority)
	}
	if dto.Status != enums.TicketStatusOpen {
		t.Fatalf("expected open status, got %s", dto.Status)
	}
	if dto.CustomerID != customerID {
		t.Fatal("expected ticket bound to customer")
	}
}

func TestServiceCreateTicketInvalidPriority(t *testing.T) {
	svc := buildTicketService(t, newStubTicketRepo())
	bad := "catastrophic"

	_, err := svc.Create(context.Background(), uuid.New(), CreateTicketRequest{
		Subject:     "s",
		Description: "d",
		Priority:    &bad,
	})
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceGetEnforcesOwnership(t *testing.T) {
	owner := uuid.New()
	ticket := &models.SupportTicket{
		ID:           uuid.New(),
		TicketNumber: "TKT-000001-ABCDEF",
		CustomerID:   owner,
		Subject:      "s",
		Description:  "d",
		Priority:     enums.TicketPriorityMedium,
		Status:       enums.TicketStatusOpen,
	}
	svc := buildTicketService(t, newStubTicketRepo(ticket))

	if _, err := svc.Get(context.Background(), owner, ticket.ID, false); err != nil {
		t.Fatalf("owner read: %v", err)
	}

	_, err := svc.Get(context.Background(), uuid.New(), ticket.ID, false)
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	if _, err := svc.Get(context.Background(), uuid.New(), ticket.ID, true); err != nil {
		t.Fatalf("admin read: %v", err)
	}
}

func TestServiceUpdateStatus(t *testing.T) {
	ticket := &models.SupportTicket{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Status:     enums.TicketStatusOpen,
	}
	svc := buildTicketService(t, newStubTicketRepo(ticket))

	dto, err := svc.UpdateStatus(context.Background(), ticket.ID, UpdateStatusRequest{Status: "resolved"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Status != enums.TicketStatusResolved {
		t.Fatalf("expected resolved, got %s", dto.Status)
	}

	_, err = svc.UpdateStatus(context.Background(), ticket.ID, UpdateStatusRequest{Status: "vanished"})
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceAssignMovesOpenTicketToInProgress(t *testing.T) {
	ticket := &models.SupportTicket{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Status:     enums.TicketStatusOpen,
	}
	svc := buildTicketService(t, newStubTicketRepo(ticket))
	assignee := uuid.New()

	dto, err := svc.Assign(context.Background(), ticket.ID, AssignRequest{AssignedTo: assignee})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if dto.AssignedTo == nil || *dto.AssignedTo != assignee {
		t.Fatalf("expected assignee recorded, got %v", dto.AssignedTo)
	}
	if dto.Status != enums.TicketStatusInProgress {
		t.Fatalf("expected in_progress after assignment, got %s", dto.Status)
	}
}

func TestServiceListAllFiltersByStatus(t *testing.T) {
	repo := newStubTicketRepo(
		&models.SupportTicket{ID: uuid.New(), CustomerID: uuid.New(), Status: enums.TicketStatusOpen},
		&models.SupportTicket{ID: uuid.New(), CustomerID: uuid.New(), Status: enums.TicketStatusResolved},
	)
	svc := buildTicketService(t, repo)

	page, err := svc.ListAll(context.Background(), "open", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || page.Tickets[0].Status != enums.TicketStatusOpen {
		t.Fatalf("expected one open ticket, got %+v", page)
	}

	_, err = svc.ListAll(context.Background(), "bogus", 10, 0)
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
