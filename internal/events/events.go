package events

import (
	"github.com/google/uuid"
)

// LeadCreated is published when a new lead enters the pipeline.
type LeadCreated struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	LeadCode string    `json:"leadCode"`
	ZipCode  string    `json:"zipCode"`
}

// EventName returns the event identifier.
func (e LeadCreated) EventName() string { return "leads.created" }

// LeadAssigned is published when a support operator sends a lead to a realtor.
type LeadAssigned struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	LeadCode     string    `json:"leadCode"`
	AssignmentID uuid.UUID `json:"assignmentId"`
	RealtorID    uuid.UUID `json:"realtorId"`
	AgentCode    string    `json:"agentCode"`
}

// EventName returns the event identifier.
func (e LeadAssigned) EventName() string { return "assignments.created" }

// ListingAgreementSigned is published when a realtor wins a lead and the
// competing assignments have been relabeled.
type ListingAgreementSigned struct {
	BaseEvent
	LeadID           uuid.UUID `json:"leadId"`
	AssignmentID     uuid.UUID `json:"assignmentId"`
	WinnerUserID     uuid.UUID `json:"winnerUserId"`
	InvalidatedCount int       `json:"invalidatedCount"`
}

// EventName returns the event identifier.
func (e ListingAgreementSigned) EventName() string { return "assignments.agreement_signed" }

// LeadCoverageLost is published by the reconciler when an accepted lead with no
// assignments is demoted because no active realtor covers its zip code.
type LeadCoverageLost struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	LeadCode string    `json:"leadCode"`
	ZipCode  string    `json:"zipCode"`
}

// EventName returns the event identifier.
func (e LeadCoverageLost) EventName() string { return "coverage.lead_lost" }

// LeadCoverageRestored is published by the reconciler when a no-coverage lead
// is promoted back to accepted because an active realtor now covers its zip.
type LeadCoverageRestored struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	LeadCode  string    `json:"leadCode"`
	ZipCode   string    `json:"zipCode"`
	RealtorID uuid.UUID `json:"realtorId"`
	AgentCode string    `json:"agentCode"`
}

// EventName returns the event identifier.
func (e LeadCoverageRestored) EventName() string { return "coverage.lead_restored" }
