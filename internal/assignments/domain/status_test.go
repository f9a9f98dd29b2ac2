package domain

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"assigned", StatusAssigned, true},
		{"Assigned", StatusAssigned, true},
		{"Follow up needed", StatusFollowUpNeeded, true},
		{"follow up needed", StatusFollowUpNeeded, true},
		{"LISTING AGREEMENT SIGNED", StatusAgreementSigned, true},
		{" Listed by Homeowner ", StatusListedByHomeowner, true},
		{"Lead taken by another realtor", StatusTakenByOther, true},
		{"won", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := Normalize(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRealtorSettable(t *testing.T) {
	if RealtorSettable(StatusAssigned) {
		t.Error("assigned must not be realtor-settable")
	}
	if RealtorSettable(StatusTakenByOther) {
		t.Error("taken-by-another must not be realtor-settable")
	}
	for _, s := range []Status{StatusFollowUpNeeded, StatusAppointmentScheduled, StatusAgreementSigned, StatusNotInterested, StatusNotListing, StatusListedByHomeowner} {
		if !RealtorSettable(s) {
			t.Errorf("expected %q to be realtor-settable", s)
		}
	}
}

func TestStatusClassification(t *testing.T) {
	for _, s := range All() {
		switch {
		case IsWin(s):
			if IsLosing(s) || IsActive(s) {
				t.Errorf("win status %q misclassified", s)
			}
			if CanChange(s) {
				t.Errorf("win status %q must be final", s)
			}
		case IsLosing(s):
			if IsActive(s) {
				t.Errorf("losing status %q must not be active", s)
			}
			if !CanChange(s) {
				t.Errorf("losing status %q should remain changeable", s)
			}
		default:
			if !IsActive(s) {
				t.Errorf("expected %q to be active", s)
			}
		}
	}
}
