// Package domain holds the assignment outcome vocabulary. Assignment statuses
// are display strings set by realtors working a lead, with two exceptions:
// "assigned" is the initial value and "Lead taken by another realtor" is only
// ever written by the system when a sibling assignment wins.
package domain

import "strings"

// Status is the outcome status of a single realtor's assignment to a lead.
type Status string

const (
	// StatusAssigned is the initial status for every new assignment.
	StatusAssigned Status = "assigned"
	// StatusFollowUpNeeded marks a lead the realtor still needs to chase.
	StatusFollowUpNeeded Status = "Follow up needed"
	// StatusAppointmentScheduled marks a booked seller appointment.
	StatusAppointmentScheduled Status = "Appointment scheduled"
	// StatusAgreementSigned is the winning outcome. Setting it relabels every
	// sibling assignment as taken by another realtor.
	StatusAgreementSigned Status = "Listing Agreement Signed"
	// StatusNotInterested is a losing outcome set by the realtor.
	StatusNotInterested Status = "Not interested in selling"
	// StatusNotListing is a losing outcome set by the realtor.
	StatusNotListing Status = "Resulted in not listing"
	// StatusListedByHomeowner is a losing outcome set by the realtor.
	StatusListedByHomeowner Status = "Listed by Homeowner"
	// StatusTakenByOther is the system-imposed losing outcome written to
	// sibling assignments when another realtor signs the agreement.
	StatusTakenByOther Status = "Lead taken by another realtor"
)

// All lists every valid assignment status.
func All() []Status {
	return []Status{
		StatusAssigned,
		StatusFollowUpNeeded,
		StatusAppointmentScheduled,
		StatusAgreementSigned,
		StatusNotInterested,
		StatusNotListing,
		StatusListedByHomeowner,
		StatusTakenByOther,
	}
}

// Normalize maps a raw status string to its canonical form, tolerating case
// differences. It returns false for unknown statuses.
func Normalize(raw string) (Status, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, s := range All() {
		if strings.ToLower(string(s)) == key {
			return s, true
		}
	}
	return "", false
}

// RealtorSettable reports whether a realtor may request this status directly.
// The initial and system-imposed statuses are excluded.
func RealtorSettable(s Status) bool {
	switch s {
	case StatusAssigned, StatusTakenByOther:
		return false
	default:
		return true
	}
}

// IsLosing reports whether the status means this realtor will not list the
// property.
func IsLosing(s Status) bool {
	switch s {
	case StatusNotInterested, StatusNotListing, StatusListedByHomeowner, StatusTakenByOther:
		return true
	default:
		return false
	}
}

// IsWin reports whether the status is the winning outcome.
func IsWin(s Status) bool {
	return s == StatusAgreementSigned
}

// CanChange reports whether an assignment in this status may still be moved.
// A signed agreement is final.
func CanChange(s Status) bool {
	return s != StatusAgreementSigned
}

// IsActive reports whether the assignment still represents a realtor actively
// working the lead.
func IsActive(s Status) bool {
	return !IsWin(s) && !IsLosing(s)
}
