// Package domain holds the lead lifecycle vocabulary shared by the repository,
// service, and reconciler layers.
package domain

import "strings"

// Status is the top-level lead status. It is independent of, but informed by,
// assignment activity: the reconciler moves leads between accepted and
// no_coverage, operators move them between the review statuses.
type Status string

const (
	// StatusPending is the initial status for every new lead.
	StatusPending Status = "pending"
	// StatusAccepted means an operator judged the lead legitimate.
	StatusAccepted Status = "accepted"
	// StatusRejected means the lead was rejected at intake review.
	StatusRejected Status = "rejected"
	// StatusNoCoverage means no active realtor currently covers the lead's zip.
	StatusNoCoverage Status = "no_coverage"
	// StatusRejectedOverturned means a previously accepted lead was rejected
	// by a support operator.
	StatusRejectedOverturned Status = "rejected_overturned"
)

// All lists every valid lead status.
func All() []Status {
	return []Status{
		StatusPending,
		StatusAccepted,
		StatusRejected,
		StatusNoCoverage,
		StatusRejectedOverturned,
	}
}

// Normalize maps historical spellings ("No Coverage", "Accepted",
// "Rejected-Overturned") to the canonical status values. It returns false when
// the input does not correspond to any known status.
func Normalize(raw string) (Status, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, " ", "_")

	switch key {
	case "pending":
		return StatusPending, true
	case "accepted":
		return StatusAccepted, true
	case "rejected":
		return StatusRejected, true
	case "no_coverage":
		return StatusNoCoverage, true
	case "rejected_overturned":
		return StatusRejectedOverturned, true
	default:
		return "", false
	}
}

// IsValid reports whether s is one of the canonical statuses.
func (s Status) IsValid() bool {
	_, ok := Normalize(string(s))
	return ok && Status(strings.ToLower(string(s))) == s
}

// operatorTransitions lists the targeted status changes operators may request
// beyond rejection. pending and no_coverage are system-managed targets:
// pending is only ever the initial value, and no_coverage is written
// exclusively by the reconciler.
var operatorTransitions = map[Status][]Status{
	StatusPending:    {StatusAccepted},
	StatusAccepted:   {StatusRejectedOverturned},
	StatusNoCoverage: {StatusRejectedOverturned},
}

// CanTransition reports whether an operator may move a lead from one status to
// another. Rejection is allowed from every status: intake review can pull a
// lead at any point in its life. Writing the current status again is always
// allowed and is a no-op for callers that retry.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	if to == StatusRejected {
		return true
	}
	for _, allowed := range operatorTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
