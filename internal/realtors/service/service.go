// Package service implements realtor onboarding, coverage edits, and the
// sales summary.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"realtor_portal_backend/internal/realtors/repository"
	"realtor_portal_backend/internal/realtors/transport"
	"realtor_portal_backend/internal/users"
	"realtor_portal_backend/platform/apperr"
	"realtor_portal_backend/platform/logger"
	"realtor_portal_backend/platform/phone"
)

// Service provides business logic for realtors.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new realtor service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create onboards a realtor: password check, bcrypt hash, realtor profile
// plus its linked portal account. The account starts inactive.
func (s *Service) Create(ctx context.Context, req transport.CreateRealtorRequest, actorID uuid.UUID) (transport.RealtorResponse, error) {
	if req.Password != req.ConfirmPassword {
		return transport.RealtorResponse{}, apperr.Validation("passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return transport.RealtorResponse{}, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}

	params := repository.CreateParams{
		AgentCode:      req.AgentCode,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Brokerage:      req.Brokerage,
		State:          req.State,
		ZipCodes:       SplitZipCodes(req.ZipCodes),
		CentralZipCode: req.CentralZipCode,
		Radius:         req.Radius,
		SignUpCategory: req.SignUpCategory,
		TeamMembers:    req.TeamMembers,
		PasswordHash:   string(hash),
		CreatedBy:      &actorID,
	}

	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		if normalized == "" {
			return transport.RealtorResponse{}, apperr.Validation("phone number is not valid")
		}
		params.Phone = &normalized
	}

	realtor, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.RealtorResponse{}, err
	}
	return transport.ToRealtorResponse(realtor), nil
}

// GetByID retrieves a realtor.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.RealtorResponse, error) {
	realtor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.RealtorResponse{}, err
	}
	return transport.ToRealtorResponse(realtor), nil
}

// List retrieves realtors. Sales users only see records they created;
// support and admin see everything.
func (s *Service) List(ctx context.Context, req transport.ListRealtorsRequest, actorID uuid.UUID, actorRoles []string) (transport.RealtorListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	params := repository.ListParams{
		IsActive: req.IsActive,
		Search:   strings.TrimSpace(req.Search),
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
	}
	if salesOnly(actorRoles) {
		params.CreatedBy = &actorID
	}

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.RealtorListResponse{}, err
	}

	resp := transport.RealtorListResponse{
		Items:    make([]transport.RealtorResponse, 0, len(items)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, r := range items {
		resp.Items = append(resp.Items, transport.ToRealtorResponse(r))
	}
	resp.TotalPages = (total + pageSize - 1) / pageSize
	return resp, nil
}

// Update edits a realtor's profile and coverage. Changes are picked up by the
// next reconcile tick.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateRealtorRequest) (transport.RealtorResponse, error) {
	params := repository.UpdateParams{
		ID:             id,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Brokerage:      req.Brokerage,
		State:          req.State,
		CentralZipCode: req.CentralZipCode,
		Radius:         req.Radius,
		SignUpCategory: req.SignUpCategory,
		TeamMembers:    req.TeamMembers,
		IsActive:       req.IsActive,
		ContractSent:   req.ContractSent,
		ContactSigned:  req.ContactSigned,
	}

	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		if normalized == "" {
			return transport.RealtorResponse{}, apperr.Validation("phone number is not valid")
		}
		params.Phone = &normalized
	}
	if req.ZipCodes != nil {
		params.ZipCodes = SplitZipCodes(*req.ZipCodes)
	}

	realtor, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.RealtorResponse{}, err
	}
	return transport.ToRealtorResponse(realtor), nil
}

// SalesSummary aggregates the acting sales user's onboarding numbers.
func (s *Service) SalesSummary(ctx context.Context, actorID uuid.UUID) (repository.SalesSummary, error) {
	return s.repo.SalesSummary(ctx, actorID)
}

// SplitZipCodes turns a comma- or whitespace-separated zip list into a
// trimmed, deduplicated slice.
func SplitZipCodes(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t'
	})

	seen := make(map[string]bool, len(fields))
	zips := make([]string, 0, len(fields))
	for _, f := range fields {
		z := strings.TrimSpace(f)
		if z == "" || seen[z] {
			continue
		}
		seen[z] = true
		zips = append(zips, z)
	}
	return zips
}

func salesOnly(roles []string) bool {
	isSales := false
	for _, r := range roles {
		switch r {
		case users.RoleSupport, users.RoleAdmin:
			return false
		case users.RoleSales:
			isSales = true
		}
	}
	return isSales
}
