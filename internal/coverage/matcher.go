// Package coverage decides which realtors cover which zip codes, routes
// accepted leads to covering realtors, and reconciles lead statuses when
// coverage changes.
package coverage

import (
	"strings"

	"realtor_portal_backend/internal/realtors/repository"
)

// Matcher decides whether a realtor's coverage definition includes a zip
// code. It is an interface so the zip-list rule can later be swapped for a
// geodesic radius lookup without touching callers.
type Matcher interface {
	Covers(realtor repository.Realtor, zipCode string) bool
}

// ZipMatcher is the production matcher. A realtor covers a zip when the zip
// appears in their explicit list, or when it equals their central zip and
// their radius is positive. The radius never extends matching to zips other
// than the central one; radius expansion requires geodesic data this system
// does not carry.
type ZipMatcher struct{}

// NewMatcher returns the zip-list matcher.
func NewMatcher() ZipMatcher {
	return ZipMatcher{}
}

// Covers implements Matcher.
func (ZipMatcher) Covers(realtor repository.Realtor, zipCode string) bool {
	zip := normalizeZip(zipCode)
	if zip == "" {
		return false
	}
	for _, z := range realtor.ZipCodes {
		if normalizeZip(z) == zip {
			return true
		}
	}
	if realtor.CentralZipCode != nil && realtor.Radius > 0 {
		return normalizeZip(*realtor.CentralZipCode) == zip
	}
	return false
}

// ActiveMatches filters realtors down to those covering the zip. Inactive realtors
// never match regardless of their zip lists.
func ActiveMatches(m Matcher, realtors []repository.Realtor, zipCode string) []repository.Realtor {
	matched := make([]repository.Realtor, 0)
	for _, r := range realtors {
		if !r.IsActive {
			continue
		}
		if m.Covers(r, zipCode) {
			matched = append(matched, r)
		}
	}
	return matched
}

// AnyActiveCovers reports whether at least one active realtor covers the zip.
func AnyActiveCovers(m Matcher, realtors []repository.Realtor, zipCode string) bool {
	for _, r := range realtors {
		if r.IsActive && m.Covers(r, zipCode) {
			return true
		}
	}
	return false
}

func normalizeZip(zip string) string {
	return strings.TrimSpace(zip)
}
