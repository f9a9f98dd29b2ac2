package transport

import (
	"time"

	"github.com/google/uuid"

	"realtor_portal_backend/internal/leads/domain"
)

type CreateLeadRequest struct {
	FirstName          string   `json:"firstName" validate:"required,min=1,max=100"`
	LastName           string   `json:"lastName" validate:"required,min=1,max=100"`
	Email              *string  `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone              string   `json:"phone" validate:"required,min=7,max=20"`
	Address            string   `json:"address" validate:"required,min=1,max=300"`
	City               string   `json:"city" validate:"required,min=1,max=100"`
	State              string   `json:"state" validate:"required,min=2,max=50"`
	ZipCode            string   `json:"zipCode" validate:"required,min=3,max=10"`
	IsHomeowner        bool     `json:"isHomeowner"`
	PropertyValue      *float64 `json:"propertyValue,omitempty" validate:"omitempty,min=0"`
	HasRealtorContract bool     `json:"hasRealtorContract"`
	Bedrooms           *int     `json:"bedrooms,omitempty" validate:"omitempty,min=0,max=50"`
	Bathrooms          *int     `json:"bathrooms,omitempty" validate:"omitempty,min=0,max=50"`
	Notes              *string  `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

type UpdateLeadRequest struct {
	FirstName          *string  `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName           *string  `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Email              *string  `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone              *string  `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Address            *string  `json:"address,omitempty" validate:"omitempty,min=1,max=300"`
	City               *string  `json:"city,omitempty" validate:"omitempty,min=1,max=100"`
	State              *string  `json:"state,omitempty" validate:"omitempty,min=2,max=50"`
	ZipCode            *string  `json:"zipCode,omitempty" validate:"omitempty,min=3,max=10"`
	IsHomeowner        *bool    `json:"isHomeowner,omitempty"`
	PropertyValue      *float64 `json:"propertyValue,omitempty" validate:"omitempty,min=0"`
	HasRealtorContract *bool    `json:"hasRealtorContract,omitempty"`
	Bedrooms           *int     `json:"bedrooms,omitempty" validate:"omitempty,min=0,max=50"`
	Bathrooms          *int     `json:"bathrooms,omitempty" validate:"omitempty,min=0,max=50"`
	Notes              *string  `json:"notes,omitempty" validate:"omitempty,max=5000"`
	RecordingURL       *string  `json:"recordingUrl,omitempty" validate:"omitempty,url,max=2000"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,min=1,max=50"`
}

type ListLeadsRequest struct {
	Status    string `form:"status" validate:"omitempty,max=50"`
	ZipCode   string `form:"zipCode" validate:"omitempty,max=10"`
	Search    string `form:"search" validate:"max=100"`
	From      string `form:"from" validate:"omitempty,max=50"`
	To        string `form:"to" validate:"omitempty,max=50"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt zipCode status"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

type MetricsRequest struct {
	From string `form:"from" validate:"omitempty,max=50"`
	To   string `form:"to" validate:"omitempty,max=50"`
}

type LeadResponse struct {
	ID                 uuid.UUID  `json:"id"`
	LeadCode           string     `json:"leadCode"`
	FirstName          string     `json:"firstName"`
	LastName           string     `json:"lastName"`
	Email              *string    `json:"email,omitempty"`
	Phone              string     `json:"phone"`
	Address            string     `json:"address"`
	City               string     `json:"city"`
	State              string     `json:"state"`
	ZipCode            string     `json:"zipCode"`
	IsHomeowner        bool       `json:"isHomeowner"`
	PropertyValue      *float64   `json:"propertyValue,omitempty"`
	HasRealtorContract bool       `json:"hasRealtorContract"`
	Bedrooms           *int       `json:"bedrooms,omitempty"`
	Bathrooms          *int       `json:"bathrooms,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	RecordingURL       *string    `json:"recordingUrl,omitempty"`
	Status             string     `json:"status"`
	CreatedBy          *uuid.UUID `json:"createdBy,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// ToLeadResponse maps a domain lead to its API shape.
func ToLeadResponse(l domain.Lead) LeadResponse {
	return LeadResponse{
		ID:                 l.ID,
		LeadCode:           l.LeadCode,
		FirstName:          l.FirstName,
		LastName:           l.LastName,
		Email:              l.Email,
		Phone:              l.Phone,
		Address:            l.Address,
		City:               l.City,
		State:              l.State,
		ZipCode:            l.ZipCode,
		IsHomeowner:        l.IsHomeowner,
		PropertyValue:      l.PropertyValue,
		HasRealtorContract: l.HasRealtorContract,
		Bedrooms:           l.Bedrooms,
		Bathrooms:          l.Bathrooms,
		Notes:              l.Notes,
		RecordingURL:       l.RecordingURL,
		Status:             string(l.Status),
		CreatedBy:          l.CreatedBy,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}
