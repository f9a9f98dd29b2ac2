package domain

import (
	"time"

	"github.com/google/uuid"
)

// Assignment links a realtor's portal user to a lead with an outcome status.
// Duplicate lead/user pairs are allowed; each send is its own row.
type Assignment struct {
	ID           uuid.UUID  `json:"id"`
	LeadID       uuid.UUID  `json:"leadId"`
	UserID       uuid.UUID  `json:"userId"`
	Status       Status     `json:"status"`
	Comments     *string    `json:"comments,omitempty"`
	SentDate     time.Time  `json:"sentDate"`
	CallbackTime *time.Time `json:"callbackTime,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CanChangeStatus reports whether the assignment's status may still be moved.
func (a Assignment) CanChangeStatus() bool {
	return CanChange(a.Status)
}
