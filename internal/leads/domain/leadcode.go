package domain

import (
	"crypto/rand"
	"fmt"
	"io"
	"regexp"
)

// LeadCodeLength is the length of every generated lead code.
const LeadCodeLength = 8

const leadCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// leadCodeMax is the largest multiple of the alphabet size that fits in a
// byte. Bytes at or above it are discarded so every character is drawn
// uniformly.
const leadCodeMax = byte(len(leadCodeAlphabet) * (256 / len(leadCodeAlphabet)))

var leadCodePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

// NewLeadCode returns a random 8-character code drawn uniformly from A-Z and
// 0-9. Uniqueness is enforced by the database, not here.
func NewLeadCode() (string, error) {
	return newLeadCode(rand.Reader)
}

func newLeadCode(r io.Reader) (string, error) {
	code := make([]byte, 0, LeadCodeLength)
	buf := make([]byte, 2*LeadCodeLength)
	for len(code) < LeadCodeLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("generate lead code: %w", err)
		}
		for _, b := range buf {
			if b >= leadCodeMax {
				continue
			}
			code = append(code, leadCodeAlphabet[int(b)%len(leadCodeAlphabet)])
			if len(code) == LeadCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// ValidLeadCode reports whether code has the shape of a generated lead code.
func ValidLeadCode(code string) bool {
	return leadCodePattern.MatchString(code)
}
