package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Sign-up categories. The category only affects pricing in the sales summary.
const (
	CategoryIndividual = "individual"
	CategoryTeam       = "team"
)

// Realtor is a realtor profile with its coverage definition and onboarding
// state.
type Realtor struct {
	ID             uuid.UUID  `json:"id"`
	AgentCode      string     `json:"agentCode"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          *string    `json:"phone,omitempty"`
	Brokerage      *string    `json:"brokerage,omitempty"`
	State          *string    `json:"state,omitempty"`
	ZipCodes       []string   `json:"zipCodes"`
	CentralZipCode *string    `json:"centralZipCode,omitempty"`
	Radius         int        `json:"radius"`
	SignUpCategory string     `json:"signUpCategory"`
	TeamMembers    *int       `json:"teamMembers,omitempty"`
	IsActive       bool       `json:"isActive"`
	ContractSent   bool       `json:"contractSent"`
	ContactSigned  bool       `json:"contactSigned"`
	UserID         *uuid.UUID `json:"userId,omitempty"`
	CreatedBy      *uuid.UUID `json:"createdBy,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// CreateParams contains data for creating a realtor profile together with its
// linked portal user. The repository runs both inserts in one transaction.
type CreateParams struct {
	AgentCode      string
	FirstName      string
	LastName       string
	Email          string
	Phone          *string
	Brokerage      *string
	State          *string
	ZipCodes       []string
	CentralZipCode *string
	Radius         int
	SignUpCategory string
	TeamMembers    *int
	PasswordHash   string
	CreatedBy      *uuid.UUID
}

// UpdateParams contains data for updating a realtor profile. Nil pointers
// leave the stored value untouched. ZipCodes replaces the whole set when
// non-nil.
type UpdateParams struct {
	ID             uuid.UUID
	FirstName      *string
	LastName       *string
	Phone          *string
	Brokerage      *string
	State          *string
	ZipCodes       []string
	CentralZipCode *string
	Radius         *int
	SignUpCategory *string
	TeamMembers    *int
	IsActive       *bool
	ContractSent   *bool
	ContactSigned  *bool
}

// ListParams defines filters for listing realtors.
type ListParams struct {
	CreatedBy *uuid.UUID
	IsActive  *bool
	Search    string
	Offset    int
	Limit     int
}

// SalesSummary aggregates onboarded realtor counts and sign-up revenue for a
// sales user.
type SalesSummary struct {
	TotalRealtors int64 `json:"totalRealtors"`
	Individuals   int64 `json:"individuals"`
	Teams         int64 `json:"teams"`
	RevenueUSD    int64 `json:"revenueUsd"`
}

// Repository defines the realtor persistence operations.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Realtor, error)
	GetByID(ctx context.Context, id uuid.UUID) (Realtor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (Realtor, error)
	List(ctx context.Context, params ListParams) ([]Realtor, int, error)
	ListActive(ctx context.Context) ([]Realtor, error)
	Update(ctx context.Context, params UpdateParams) (Realtor, error)
	SalesSummary(ctx context.Context, createdBy uuid.UUID) (SalesSummary, error)
}
