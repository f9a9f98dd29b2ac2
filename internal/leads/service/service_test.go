package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"realtor_portal_backend/internal/events"
	"realtor_portal_backend/internal/leads/domain"
	"realtor_portal_backend/internal/leads/repository"
	"realtor_portal_backend/internal/leads/transport"
	"realtor_portal_backend/platform/apperr"
	"realtor_portal_backend/platform/logger"
)

type fakeRepo struct {
	leads map[uuid.UUID]domain.Lead
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{leads: make(map[uuid.UUID]domain.Lead)}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (domain.Lead, error) {
	code, _ := domain.NewLeadCode()
	lead := domain.Lead{
		ID:        uuid.New(),
		LeadCode:  code,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Email:     params.Email,
		Phone:     params.Phone,
		Address:   params.Address,
		City:      params.City,
		State:     params.State,
		ZipCode:   params.ZipCode,
		Notes:     params.Notes,
		Status:    domain.StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (f *fakeRepo) GetByCode(_ context.Context, code string) (domain.Lead, error) {
	for _, l := range f.leads {
		if l.LeadCode == code {
			return l, nil
		}
	}
	return domain.Lead{}, apperr.NotFound("lead not found")
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]domain.Lead, int, error) {
	items := make([]domain.Lead, 0, len(f.leads))
	for _, l := range f.leads {
		items = append(items, l)
	}
	return items, len(items), nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateParams) (domain.Lead, error) {
	lead, ok := f.leads[params.ID]
	if !ok {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	if params.FirstName != nil {
		lead.FirstName = *params.FirstName
	}
	if params.ZipCode != nil {
		lead.ZipCode = *params.ZipCode
	}
	f.leads[params.ID] = lead
	return lead, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) (domain.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	lead.Status = status
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.leads[id]; !ok {
		return apperr.NotFound("lead not found")
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeRepo) Metrics(_ context.Context, _ repository.MetricsParams) (domain.Metrics, error) {
	return domain.Metrics{}, nil
}

func (f *fakeRepo) ListAcceptedWithoutAssignments(_ context.Context) ([]domain.Lead, error) {
	return nil, nil
}

func (f *fakeRepo) ListNoCoverage(_ context.Context) ([]domain.Lead, error) {
	return nil, nil
}

func newTestService(repo repository.Repository) *Service {
	log := logger.New("test")
	return New(repo, events.NewInMemoryBus(log), log)
}

func TestCreateNormalizesPhone(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	resp, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Jane",
		LastName:  "Seller",
		Phone:     "(212) 555-0188",
		Address:   "1 Main St",
		City:      "New York",
		State:     "NY",
		ZipCode:   "10001",
	}, uuid.New())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if resp.Phone != "+12125550188" {
		t.Errorf("phone = %q, want E.164 normalized", resp.Phone)
	}
	if resp.Status != string(domain.StatusPending) {
		t.Errorf("status = %q, want pending", resp.Status)
	}
	if !domain.ValidLeadCode(resp.LeadCode) {
		t.Errorf("leadCode = %q, want 8-char code", resp.LeadCode)
	}
}

func TestCreateRejectsInvalidPhone(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Jane",
		LastName:  "Seller",
		Phone:     "not-a-phone",
		Address:   "1 Main St",
		City:      "New York",
		State:     "NY",
		ZipCode:   "10001",
	}, uuid.New())
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	lead, _ := repo.Create(context.Background(), repository.CreateParams{
		FirstName: "Jane", LastName: "Seller", Phone: "+12125550188",
		Address: "1 Main St", City: "New York", State: "NY", ZipCode: "10001",
	})

	// pending -> accepted
	resp, err := svc.UpdateStatus(context.Background(), lead.ID, transport.UpdateLeadStatusRequest{Status: "Accepted"})
	if err != nil {
		t.Fatalf("UpdateStatus to accepted: %v", err)
	}
	if resp.Status != string(domain.StatusAccepted) {
		t.Errorf("status = %q, want accepted", resp.Status)
	}

	// idempotent same-status write
	if _, err := svc.UpdateStatus(context.Background(), lead.ID, transport.UpdateLeadStatusRequest{Status: "accepted"}); err != nil {
		t.Errorf("same-status write should succeed, got %v", err)
	}

	// operators cannot hand a lead back to the reconciler-owned status
	_, err = svc.UpdateStatus(context.Background(), lead.ID, transport.UpdateLeadStatusRequest{Status: "no_coverage"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error for accepted->no_coverage, got %v", err)
	}

	// accepted -> rejected_overturned
	resp, err = svc.UpdateStatus(context.Background(), lead.ID, transport.UpdateLeadStatusRequest{Status: "Rejected-Overturned"})
	if err != nil {
		t.Fatalf("UpdateStatus to rejected_overturned: %v", err)
	}
	if resp.Status != string(domain.StatusRejectedOverturned) {
		t.Errorf("status = %q, want rejected_overturned", resp.Status)
	}

	// rejection is allowed from any status
	resp, err = svc.UpdateStatus(context.Background(), lead.ID, transport.UpdateLeadStatusRequest{Status: "rejected"})
	if err != nil {
		t.Fatalf("UpdateStatus to rejected: %v", err)
	}
	if resp.Status != string(domain.StatusRejected) {
		t.Errorf("status = %q, want rejected", resp.Status)
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	lead, _ := repo.Create(context.Background(), repository.CreateParams{
		FirstName: "Jane", LastName: "Seller", Phone: "+12125550188",
		Address: "1 Main St", City: "New York", State: "NY", ZipCode: "10001",
	})

	_, err := svc.UpdateStatus(context.Background(), lead.ID, transport.UpdateLeadStatusRequest{Status: "archived"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), transport.UpdateLeadStatusRequest{Status: "accepted"})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
