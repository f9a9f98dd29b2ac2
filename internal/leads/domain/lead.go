package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lead is a seller lead as stored in the leads table. CreatedAt doubles as
// the submission timestamp.
type Lead struct {
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
	Status             Status     `json:"status"`
	CreatedBy          *uuid.UUID `json:"createdBy,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// StatusCounts is a per-status breakdown of lead volume.
type StatusCounts struct {
	Total              int64 `json:"total"`
	Pending            int64 `json:"pending"`
	Accepted           int64 `json:"accepted"`
	Rejected           int64 `json:"rejected"`
	NoCoverage         int64 `json:"noCoverage"`
	RejectedOverturned int64 `json:"rejectedOverturned"`
}

// DayCounts is the lead volume submitted on one calendar day.
type DayCounts struct {
	Day time.Time `json:"day"`
	StatusCounts
}

// Metrics summarizes lead volume over a date range for the leadgen dashboard.
type Metrics struct {
	StatusCounts
	ConversionRate float64     `json:"conversionRate"`
	Daily          []DayCounts `json:"daily"`
}
