package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"realtor_portal_backend/internal/leads/domain"
)

// CreateParams contains data for creating a lead. LeadCode is filled in by the
// repository, which retries on code collisions.
type CreateParams struct {
	FirstName          string
	LastName           string
	Email              *string
	Phone              string
	Address            string
	City               string
	State              string
	ZipCode            string
	IsHomeowner        bool
	PropertyValue      *float64
	HasRealtorContract bool
	Bedrooms           *int
	Bathrooms          *int
	Notes              *string
	CreatedBy          *uuid.UUID
}

// UpdateParams contains data for the QA review edit. Nil pointers leave the
// stored value untouched.
type UpdateParams struct {
	ID                 uuid.UUID
	FirstName          *string
	LastName           *string
	Email              *string
	Phone              *string
	Address            *string
	City               *string
	State              *string
	ZipCode            *string
	IsHomeowner        *bool
	PropertyValue      *float64
	HasRealtorContract *bool
	Bedrooms           *int
	Bathrooms          *int
	Notes              *string
	RecordingURL       *string
}

// ListParams defines filters for listing leads.
type ListParams struct {
	Status    *domain.Status
	ZipCode   string
	Search    string
	From      *time.Time
	To        *time.Time
	Offset    int
	Limit     int
	SortBy    string
	SortOrder string
}

// MetricsParams bounds the metrics aggregation window. Zero values mean an
// open end.
type MetricsParams struct {
	From *time.Time
	To   *time.Time
}

// Repository defines the lead persistence operations.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (domain.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	GetByCode(ctx context.Context, code string) (domain.Lead, error)
	List(ctx context.Context, params ListParams) ([]domain.Lead, int, error)
	Update(ctx context.Context, params UpdateParams) (domain.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Metrics(ctx context.Context, params MetricsParams) (domain.Metrics, error)
	ListAcceptedWithoutAssignments(ctx context.Context) ([]domain.Lead, error)
	ListNoCoverage(ctx context.Context) ([]domain.Lead, error)
}
