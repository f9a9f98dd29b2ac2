package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"realtor_portal_backend/internal/assignments/domain"
)

// AssignmentWithLead is an assignment joined with the lead it points at, as
// shown in a realtor's work queue.
type AssignmentWithLead struct {
	domain.Assignment
	LeadCode               string   `json:"leadCode"`
	LeadFirstName          string   `json:"leadFirstName"`
	LeadLastName           string   `json:"leadLastName"`
	LeadPhone              string   `json:"leadPhone"`
	LeadEmail              *string  `json:"leadEmail,omitempty"`
	LeadAddress            string   `json:"leadAddress"`
	LeadCity               string   `json:"leadCity"`
	LeadState              string   `json:"leadState"`
	LeadZipCode            string   `json:"leadZipCode"`
	LeadBedrooms           *int     `json:"leadBedrooms,omitempty"`
	LeadBathrooms          *int     `json:"leadBathrooms,omitempty"`
	LeadPropertyValue      *float64 `json:"leadPropertyValue,omitempty"`
	LeadHasRealtorContract bool     `json:"leadHasRealtorContract"`
}

// AssignmentWithRealtor is an assignment joined with the realtor holding it,
// as shown on a lead's detail view.
type AssignmentWithRealtor struct {
	domain.Assignment
	AgentCode        string `json:"agentCode"`
	RealtorFirstName string `json:"realtorFirstName"`
	RealtorLastName  string `json:"realtorLastName"`
}

// UpdateStatusParams carries a status change for one assignment.
type UpdateStatusParams struct {
	ID           uuid.UUID
	Status       domain.Status
	CallbackTime *time.Time
}

// SignResult describes the outcome of signing a listing agreement.
type SignResult struct {
	Assignment  domain.Assignment
	Invalidated int
}

// Repository defines the assignment persistence operations.
type Repository interface {
	Create(ctx context.Context, leadID, userID uuid.UUID) (domain.Assignment, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Assignment, error)
	ListForLead(ctx context.Context, leadID uuid.UUID) ([]AssignmentWithRealtor, error)
	ListForRealtor(ctx context.Context, userID uuid.UUID) ([]AssignmentWithLead, error)
	UpdateStatus(ctx context.Context, params UpdateStatusParams) (domain.Assignment, error)
	SignAgreement(ctx context.Context, id uuid.UUID, callbackTime *time.Time) (SignResult, error)
	HasWinner(ctx context.Context, leadID uuid.UUID) (bool, error)
	SetComment(ctx context.Context, id uuid.UUID, comment string) (domain.Assignment, error)
}
