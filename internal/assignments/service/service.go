// Package service implements the assignment ledger: sending leads to
// realtors, realtor status updates with the winner-takes-the-lead transition,
// and the realtor work queue.
package service

import (
	"context"

	"github.com/google/uuid"

	"realtor_portal_backend/internal/assignments/domain"
	"realtor_portal_backend/internal/assignments/repository"
	"realtor_portal_backend/internal/assignments/transport"
	"realtor_portal_backend/internal/events"
	leaddomain "realtor_portal_backend/internal/leads/domain"
	realtorrepo "realtor_portal_backend/internal/realtors/repository"
	"realtor_portal_backend/platform/apperr"
	"realtor_portal_backend/platform/logger"
	"realtor_portal_backend/platform/sanitize"
)

// LeadStore is the slice of the lead repository the ledger needs.
type LeadStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (leaddomain.Lead, error)
}

// RealtorStore is the slice of the realtor repository the ledger needs.
type RealtorStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (realtorrepo.Realtor, error)
}

// Service provides business logic for assignments.
type Service struct {
	repo     repository.Repository
	leads    LeadStore
	realtors RealtorStore
	bus      events.Bus
	log      *logger.Logger
}

// New creates a new assignment service.
func New(repo repository.Repository, leads LeadStore, realtors RealtorStore, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, leads: leads, realtors: realtors, bus: bus, log: log}
}

// Assign sends a lead to a realtor. The realtor must have a linked portal
// account; re-sending creates a fresh assignment row.
func (s *Service) Assign(ctx context.Context, leadID uuid.UUID, req transport.AssignRequest) (transport.AssignmentViewResponse, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		return transport.AssignmentViewResponse{}, err
	}

	realtor, err := s.realtors.GetByID(ctx, req.RealtorID)
	if err != nil {
		return transport.AssignmentViewResponse{}, err
	}
	if realtor.UserID == nil {
		return transport.AssignmentViewResponse{}, apperr.NotFound("realtor has no linked portal account")
	}

	assignment, err := s.repo.Create(ctx, lead.ID, *realtor.UserID)
	if err != nil {
		return transport.AssignmentViewResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		LeadCode:     lead.LeadCode,
		AssignmentID: assignment.ID,
		RealtorID:    realtor.ID,
		AgentCode:    realtor.AgentCode,
	})

	return transport.AssignmentViewResponse{
		AssignmentResponse: transport.ToAssignmentResponse(assignment),
		AgentCode:          realtor.AgentCode,
		RealtorFirstName:   realtor.FirstName,
		RealtorLastName:    realtor.LastName,
	}, nil
}

// ListForLead returns a lead's assignments with realtor identity.
func (s *Service) ListForLead(ctx context.Context, leadID uuid.UUID) ([]transport.AssignmentViewResponse, error) {
	if _, err := s.leads.GetByID(ctx, leadID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListForLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	items := make([]transport.AssignmentViewResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, transport.ToViewResponse(row))
	}
	return items, nil
}

// ListForRealtor returns the acting realtor's work queue. Assignments that
// reached a losing terminal status are excluded.
func (s *Service) ListForRealtor(ctx context.Context, actorUserID uuid.UUID) ([]transport.RealtorQueueItem, error) {
	rows, err := s.repo.ListForRealtor(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	items := make([]transport.RealtorQueueItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, transport.ToQueueItem(row))
	}
	return items, nil
}

// UpdateStatus applies a realtor's status change to their own assignment. The
// winning status triggers the sibling relabel transaction; a lead that
// already has a winner yields a conflict.
func (s *Service) UpdateStatus(ctx context.Context, assignmentID uuid.UUID, actorUserID uuid.UUID, req transport.UpdateStatusRequest) (transport.AssignmentResponse, error) {
	status, ok := domain.Normalize(req.Status)
	if !ok {
		return transport.AssignmentResponse{}, apperr.Validation("unknown assignment status")
	}
	if !domain.RealtorSettable(status) {
		return transport.AssignmentResponse{}, apperr.Validation("status cannot be set directly")
	}

	assignment, err := s.loadOwned(ctx, assignmentID, actorUserID)
	if err != nil {
		return transport.AssignmentResponse{}, err
	}
	if !assignment.CanChangeStatus() {
		return transport.AssignmentResponse{}, apperr.Conflict("a signed listing agreement is final")
	}

	if domain.IsWin(status) {
		result, err := s.repo.SignAgreement(ctx, assignmentID, req.CallbackTime)
		if err != nil {
			return transport.AssignmentResponse{}, err
		}

		s.bus.Publish(ctx, events.ListingAgreementSigned{
			BaseEvent:        events.NewBaseEvent(),
			LeadID:           result.Assignment.LeadID,
			AssignmentID:     result.Assignment.ID,
			WinnerUserID:     actorUserID,
			InvalidatedCount: result.Invalidated,
		})

		return transport.ToAssignmentResponse(result.Assignment), nil
	}

	updated, err := s.repo.UpdateStatus(ctx, repository.UpdateStatusParams{
		ID:           assignmentID,
		Status:       status,
		CallbackTime: req.CallbackTime,
	})
	if err != nil {
		return transport.AssignmentResponse{}, err
	}
	return transport.ToAssignmentResponse(updated), nil
}

// SetComment overwrites the comment on the realtor's own assignment.
func (s *Service) SetComment(ctx context.Context, assignmentID uuid.UUID, actorUserID uuid.UUID, req transport.CommentRequest) (transport.AssignmentResponse, error) {
	if _, err := s.loadOwned(ctx, assignmentID, actorUserID); err != nil {
		return transport.AssignmentResponse{}, err
	}

	updated, err := s.repo.SetComment(ctx, assignmentID, sanitize.Text(req.Comment))
	if err != nil {
		return transport.AssignmentResponse{}, err
	}
	return transport.ToAssignmentResponse(updated), nil
}

func (s *Service) loadOwned(ctx context.Context, assignmentID, actorUserID uuid.UUID) (domain.Assignment, error) {
	assignment, err := s.repo.GetByID(ctx, assignmentID)
	if err != nil {
		return domain.Assignment{}, err
	}
	if assignment.UserID != actorUserID {
		return domain.Assignment{}, apperr.Forbidden("assignment belongs to another realtor")
	}
	return assignment, nil
}
