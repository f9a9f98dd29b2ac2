package service

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"realtor_portal_backend/internal/realtors/repository"
	"realtor_portal_backend/internal/realtors/transport"
	"realtor_portal_backend/internal/users"
	"realtor_portal_backend/platform/apperr"
	"realtor_portal_backend/platform/logger"
)

type fakeRepo struct {
	realtors   map[uuid.UUID]repository.Realtor
	lastCreate repository.CreateParams
	lastList   repository.ListParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{realtors: make(map[uuid.UUID]repository.Realtor)}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Realtor, error) {
	f.lastCreate = params
	userID := uuid.New()
	r := repository.Realtor{
		ID: uuid.New(), AgentCode: params.AgentCode, FirstName: params.FirstName,
		LastName: params.LastName, Email: params.Email, ZipCodes: params.ZipCodes,
		CentralZipCode: params.CentralZipCode, Radius: params.Radius,
		SignUpCategory: params.SignUpCategory, IsActive: true, UserID: &userID,
		CreatedBy: params.CreatedBy,
	}
	f.realtors[r.ID] = r
	return r, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Realtor, error) {
	r, ok := f.realtors[id]
	if !ok {
		return repository.Realtor{}, apperr.NotFound("realtor not found")
	}
	return r, nil
}

func (f *fakeRepo) GetByUserID(_ context.Context, _ uuid.UUID) (repository.Realtor, error) {
	return repository.Realtor{}, apperr.NotFound("realtor not found")
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.Realtor, int, error) {
	f.lastList = params
	return nil, 0, nil
}

func (f *fakeRepo) ListActive(_ context.Context) ([]repository.Realtor, error) {
	return nil, nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateParams) (repository.Realtor, error) {
	r, ok := f.realtors[params.ID]
	if !ok {
		return repository.Realtor{}, apperr.NotFound("realtor not found")
	}
	if params.ZipCodes != nil {
		r.ZipCodes = params.ZipCodes
	}
	if params.IsActive != nil {
		r.IsActive = *params.IsActive
	}
	f.realtors[params.ID] = r
	return r, nil
}

func (f *fakeRepo) SalesSummary(_ context.Context, _ uuid.UUID) (repository.SalesSummary, error) {
	return repository.SalesSummary{}, nil
}

func TestCreateHashesPasswordAndSplitsZips(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("test"))

	resp, err := svc.Create(context.Background(), transport.CreateRealtorRequest{
		AgentCode:       "AGENT007",
		FirstName:       "Ann",
		LastName:        "Agent",
		Email:           "ann@example.com",
		ZipCodes:        "90210, 90211,90210 10001",
		SignUpCategory:  repository.CategoryIndividual,
		Password:        "hunter2hunter2",
		ConfirmPassword: "hunter2hunter2",
	}, uuid.New())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	wantZips := []string{"90210", "90211", "10001"}
	if !reflect.DeepEqual(resp.ZipCodes, wantZips) {
		t.Errorf("zipCodes = %v, want %v", resp.ZipCodes, wantZips)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(repo.lastCreate.PasswordHash), []byte("hunter2hunter2")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestCreatePasswordMismatch(t *testing.T) {
	svc := New(newFakeRepo(), logger.New("test"))

	_, err := svc.Create(context.Background(), transport.CreateRealtorRequest{
		AgentCode: "AGENT007", FirstName: "Ann", LastName: "Agent",
		Email: "ann@example.com", SignUpCategory: repository.CategoryIndividual,
		Password: "hunter2hunter2", ConfirmPassword: "different",
	}, uuid.New())
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListScoping(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("test"))
	actor := uuid.New()

	if _, err := svc.List(context.Background(), transport.ListRealtorsRequest{}, actor, []string{users.RoleSales}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.lastList.CreatedBy == nil || *repo.lastList.CreatedBy != actor {
		t.Error("sales list should be scoped to the actor's records")
	}

	if _, err := svc.List(context.Background(), transport.ListRealtorsRequest{}, actor, []string{users.RoleSupport}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.lastList.CreatedBy != nil {
		t.Error("support list should be unscoped")
	}
}

func TestSplitZipCodes(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"90210", []string{"90210"}},
		{"90210,90211", []string{"90210", "90211"}},
		{" 90210 ; 90211\n10001\t90210 ", []string{"90210", "90211", "10001"}},
	}

	for _, tt := range tests {
		if got := SplitZipCodes(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitZipCodes(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
