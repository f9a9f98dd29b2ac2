package transport

import (
	"time"

	"github.com/google/uuid"

	"realtor_portal_backend/internal/assignments/domain"
	"realtor_portal_backend/internal/assignments/repository"
)

type AssignRequest struct {
	RealtorID uuid.UUID `json:"realtorId" validate:"required"`
}

type UpdateStatusRequest struct {
	Status       string     `json:"status" validate:"required,min=1,max=60"`
	CallbackTime *time.Time `json:"callbackTime,omitempty"`
}

type CommentRequest struct {
	Comment string `json:"comment" validate:"required,min=1,max=5000"`
}

type AssignmentResponse struct {
	ID              uuid.UUID  `json:"id"`
	LeadID          uuid.UUID  `json:"leadId"`
	Status          string     `json:"status"`
	Comments        *string    `json:"comments,omitempty"`
	SentDate        time.Time  `json:"sentDate"`
	CallbackTime    *time.Time `json:"callbackTime,omitempty"`
	CanChangeStatus bool       `json:"canChangeStatus"`
}

type AssignmentViewResponse struct {
	AssignmentResponse
	AgentCode        string `json:"agentCode"`
	RealtorFirstName string `json:"realtorFirstName"`
	RealtorLastName  string `json:"realtorLastName"`
}

type RealtorQueueItem struct {
	AssignmentResponse
	LeadCode           string   `json:"leadCode"`
	ProspectFirstName  string   `json:"prospectFirstName"`
	ProspectLastName   string   `json:"prospectLastName"`
	ProspectPhone      string   `json:"prospectPhone"`
	ProspectEmail      *string  `json:"prospectEmail,omitempty"`
	Address            string   `json:"address"`
	City               string   `json:"city"`
	State              string   `json:"state"`
	ZipCode            string   `json:"zipCode"`
	Bedrooms           *int     `json:"bedrooms,omitempty"`
	Bathrooms          *int     `json:"bathrooms,omitempty"`
	PropertyValue      *float64 `json:"propertyValue,omitempty"`
	HasRealtorContract bool     `json:"hasRealtorContract"`
}

// ToAssignmentResponse maps a domain assignment to its API shape, deriving
// canChangeStatus from the status.
func ToAssignmentResponse(a domain.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:              a.ID,
		LeadID:          a.LeadID,
		Status:          string(a.Status),
		Comments:        a.Comments,
		SentDate:        a.SentDate,
		CallbackTime:    a.CallbackTime,
		CanChangeStatus: a.CanChangeStatus(),
	}
}

// ToViewResponse maps an assignment-with-realtor row to its API shape.
func ToViewResponse(a repository.AssignmentWithRealtor) AssignmentViewResponse {
	return AssignmentViewResponse{
		AssignmentResponse: ToAssignmentResponse(a.Assignment),
		AgentCode:          a.AgentCode,
		RealtorFirstName:   a.RealtorFirstName,
		RealtorLastName:    a.RealtorLastName,
	}
}

// ToQueueItem maps an assignment-with-lead row to the realtor queue shape.
func ToQueueItem(a repository.AssignmentWithLead) RealtorQueueItem {
	return RealtorQueueItem{
		AssignmentResponse: ToAssignmentResponse(a.Assignment),
		LeadCode:           a.LeadCode,
		ProspectFirstName:  a.LeadFirstName,
		ProspectLastName:   a.LeadLastName,
		ProspectPhone:      a.LeadPhone,
		ProspectEmail:      a.LeadEmail,
		Address:            a.LeadAddress,
		City:               a.LeadCity,
		State:              a.LeadState,
		ZipCode:            a.LeadZipCode,
		Bedrooms:           a.LeadBedrooms,
		Bathrooms:          a.LeadBathrooms,
		PropertyValue:      a.LeadPropertyValue,
		HasRealtorContract: a.LeadHasRealtorContract,
	}
}
