package transport

import (
	"time"

	"github.com/google/uuid"

	"realtor_portal_backend/internal/realtors/repository"
)

type CreateRealtorRequest struct {
	AgentCode       string  `json:"agentCode" validate:"required,min=3,max=20,alphanum"`
	FirstName       string  `json:"firstName" validate:"required,min=1,max=100"`
	LastName        string  `json:"lastName" validate:"required,min=1,max=100"`
	Email           string  `json:"email" validate:"required,email,max=254"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Brokerage       *string `json:"brokerage,omitempty" validate:"omitempty,max=200"`
	State           *string `json:"state,omitempty" validate:"omitempty,min=2,max=50"`
	ZipCodes        string  `json:"zipCodes" validate:"omitempty,max=2000"`
	CentralZipCode  *string `json:"centralZipCode,omitempty" validate:"omitempty,min=3,max=10"`
	Radius          int     `json:"radius" validate:"min=0,max=500"`
	SignUpCategory  string  `json:"signUpCategory" validate:"required,oneof=individual team"`
	TeamMembers     *int    `json:"teamMembers,omitempty" validate:"omitempty,min=1,max=500"`
	Password        string  `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string  `json:"confirmPassword" validate:"required,min=8,max=128"`
}

type UpdateRealtorRequest struct {
	FirstName      *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName       *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Brokerage      *string `json:"brokerage,omitempty" validate:"omitempty,max=200"`
	State          *string `json:"state,omitempty" validate:"omitempty,min=2,max=50"`
	ZipCodes       *string `json:"zipCodes,omitempty" validate:"omitempty,max=2000"`
	CentralZipCode *string `json:"centralZipCode,omitempty" validate:"omitempty,min=3,max=10"`
	Radius         *int    `json:"radius,omitempty" validate:"omitempty,min=0,max=500"`
	SignUpCategory *string `json:"signUpCategory,omitempty" validate:"omitempty,oneof=individual team"`
	TeamMembers    *int    `json:"teamMembers,omitempty" validate:"omitempty,min=1,max=500"`
	IsActive       *bool   `json:"isActive,omitempty"`
	ContractSent   *bool   `json:"contractSent,omitempty"`
	ContactSigned  *bool   `json:"contactSigned,omitempty"`
}

type ListRealtorsRequest struct {
	IsActive *bool  `form:"isActive"`
	Search   string `form:"search" validate:"max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type RealtorResponse struct {
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
	CreatedBy      *uuid.UUID `json:"createdBy,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type RealtorListResponse struct {
	Items      []RealtorResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

// ToRealtorResponse maps a stored realtor to its API shape.
func ToRealtorResponse(r repository.Realtor) RealtorResponse {
	return RealtorResponse{
		ID:             r.ID,
		AgentCode:      r.AgentCode,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Phone:          r.Phone,
		Brokerage:      r.Brokerage,
		State:          r.State,
		ZipCodes:       r.ZipCodes,
		CentralZipCode: r.CentralZipCode,
		Radius:         r.Radius,
		SignUpCategory: r.SignUpCategory,
		TeamMembers:    r.TeamMembers,
		IsActive:       r.IsActive,
		ContractSent:   r.ContractSent,
		ContactSigned:  r.ContactSigned,
		CreatedBy:      r.CreatedBy,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
