package domain

import (
	"bytes"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"pending", StatusPending, true},
		{"Pending", StatusPending, true},
		{"accepted", StatusAccepted, true},
		{"No Coverage", StatusNoCoverage, true},
		{"no_coverage", StatusNoCoverage, true},
		{"NO-COVERAGE", StatusNoCoverage, true},
		{"Rejected-Overturned", StatusRejectedOverturned, true},
		{" rejected_overturned ", StatusRejectedOverturned, true},
		{"", "", false},
		{"archived", "", false},
		{"nocoverage", "", false},
	}

	for _, tt := range tests {
		got, ok := Normalize(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range All() {
		if !s.IsValid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if Status("Accepted").IsValid() {
		t.Error("mixed-case status should not be valid in canonical form")
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusNoCoverage, false},
		{StatusAccepted, StatusRejectedOverturned, true},
		{StatusNoCoverage, StatusRejectedOverturned, true},
		{StatusNoCoverage, StatusAccepted, false},
		{StatusRejected, StatusAccepted, false},
		{StatusRejectedOverturned, StatusAccepted, false},
		{StatusAccepted, StatusAccepted, true},
		{StatusRejected, StatusRejected, true},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCanTransitionToRejectedFromAnyStatus(t *testing.T) {
	for _, from := range All() {
		if !CanTransition(from, StatusRejected) {
			t.Errorf("CanTransition(%q, rejected) = false, want true", from)
		}
	}
}

func TestNewLeadCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := NewLeadCode()
		if err != nil {
			t.Fatalf("NewLeadCode: %v", err)
		}
		if !ValidLeadCode(code) {
			t.Fatalf("generated code %q does not match the expected shape", code)
		}
		seen[code] = true
	}
	if len(seen) < 95 {
		t.Errorf("too many duplicate codes in 100 draws: %d unique", len(seen))
	}
}

func TestNewLeadCodeDiscardsOutOfRangeBytes(t *testing.T) {
	// Bytes 252-255 fall outside the largest multiple of the alphabet size
	// and must be skipped.
	src := bytes.NewReader([]byte{252, 253, 254, 255, 0, 1, 2, 35, 36, 37, 70, 251, 0, 0, 0, 0})

	code, err := newLeadCode(src)
	if err != nil {
		t.Fatalf("newLeadCode: %v", err)
	}
	if code != "ABC9AB89" {
		t.Errorf("code = %q, want %q", code, "ABC9AB89")
	}
}
