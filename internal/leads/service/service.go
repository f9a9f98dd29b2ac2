// Package service implements the lead lifecycle: intake, listing, the QA
// review edit, and operator status changes.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"realtor_portal_backend/internal/events"
	"realtor_portal_backend/internal/leads/domain"
	"realtor_portal_backend/internal/leads/repository"
	"realtor_portal_backend/internal/leads/transport"
	"realtor_portal_backend/platform/apperr"
	"realtor_portal_backend/platform/logger"
	"realtor_portal_backend/platform/phone"
	"realtor_portal_backend/platform/sanitize"
)

// Service provides business logic for leads.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new lead service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Create registers a new lead. The phone number is normalized to E.164 and
// free text is sanitized before storage.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest, actorID uuid.UUID) (transport.LeadResponse, error) {
	normalized := phone.NormalizeE164(req.Phone)
	if normalized == "" {
		return transport.LeadResponse{}, apperr.Validation("phone number is not valid")
	}

	params := repository.CreateParams{
		FirstName:          sanitize.Text(req.FirstName),
		LastName:           sanitize.Text(req.LastName),
		Email:              req.Email,
		Phone:              normalized,
		Address:            sanitize.Text(req.Address),
		City:               sanitize.Text(req.City),
		State:              sanitize.Text(req.State),
		ZipCode:            sanitize.Text(req.ZipCode),
		IsHomeowner:        req.IsHomeowner,
		PropertyValue:      req.PropertyValue,
		HasRealtorContract: req.HasRealtorContract,
		Bedrooms:           req.Bedrooms,
		Bathrooms:          req.Bathrooms,
		Notes:              sanitize.TextPtr(req.Notes),
		CreatedBy:          &actorID,
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		LeadCode:  lead.LeadCode,
		ZipCode:   lead.ZipCode,
	})

	return transport.ToLeadResponse(lead), nil
}

// GetByID retrieves a lead.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(lead), nil
}

// List retrieves leads with filters and pagination.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
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
		ZipCode:   req.ZipCode,
		Search:    req.Search,
		Offset:    (page - 1) * pageSize,
		Limit:     pageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}

	if req.Status != "" {
		status, ok := domain.Normalize(req.Status)
		if !ok {
			return transport.LeadListResponse{}, apperr.Validation("unknown lead status filter")
		}
		params.Status = &status
	}

	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return transport.LeadListResponse{}, err
	}
	params.From = from
	params.To = to

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	resp := transport.LeadListResponse{
		Items:    make([]transport.LeadResponse, 0, len(items)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, l := range items {
		resp.Items = append(resp.Items, transport.ToLeadResponse(l))
	}
	resp.TotalPages = (total + pageSize - 1) / pageSize
	return resp, nil
}

// Update applies the QA review edit.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	params := repository.UpdateParams{
		ID:                 id,
		FirstName:          sanitize.TextPtr(req.FirstName),
		LastName:           sanitize.TextPtr(req.LastName),
		Email:              req.Email,
		Address:            sanitize.TextPtr(req.Address),
		City:               sanitize.TextPtr(req.City),
		State:              sanitize.TextPtr(req.State),
		ZipCode:            sanitize.TextPtr(req.ZipCode),
		IsHomeowner:        req.IsHomeowner,
		PropertyValue:      req.PropertyValue,
		HasRealtorContract: req.HasRealtorContract,
		Bedrooms:           req.Bedrooms,
		Bathrooms:          req.Bathrooms,
		Notes:              sanitize.TextPtr(req.Notes),
		RecordingURL:       req.RecordingURL,
	}

	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		if normalized == "" {
			return transport.LeadResponse{}, apperr.Validation("phone number is not valid")
		}
		params.Phone = &normalized
	}

	lead, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(lead), nil
}

// UpdateStatus applies an operator status change. Unknown statuses and
// transitions outside the review flow are rejected; writing the current
// status again is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdateLeadStatusRequest) (transport.LeadResponse, error) {
	status, ok := domain.Normalize(req.Status)
	if !ok {
		return transport.LeadResponse{}, apperr.Validation("unknown lead status")
	}

	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if lead.Status == status {
		return transport.ToLeadResponse(lead), nil
	}
	if !domain.CanTransition(lead.Status, status) {
		return transport.LeadResponse{}, apperr.Validation("status change not allowed from " + string(lead.Status) + " to " + string(status))
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(updated), nil
}

// Delete removes a lead and its assignments.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Metrics aggregates lead volume over a date range.
func (s *Service) Metrics(ctx context.Context, req transport.MetricsRequest) (domain.Metrics, error) {
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return domain.Metrics{}, err
	}
	return s.repo.Metrics(ctx, repository.MetricsParams{From: from, To: to})
}

func parseDateRange(fromRaw, toRaw string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if fromRaw != "" {
		t, err := parseDate(fromRaw)
		if err != nil {
			return nil, nil, apperr.Validation("invalid from date")
		}
		from = &t
	}
	if toRaw != "" {
		t, err := parseDate(toRaw)
		if err != nil {
			return nil, nil, apperr.Validation("invalid to date")
		}
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, apperr.Validation("date range is inverted")
	}
	return from, to, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
