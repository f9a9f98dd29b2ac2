package notifications

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"realtor_portal_backend/internal/events"
	"realtor_portal_backend/platform/apperr"
	"realtor_portal_backend/platform/logger"
)

type fakeRepo struct {
	recorded []string
}

func (f *fakeRepo) Record(_ context.Context, message string) (Notification, error) {
	if message == "" {
		return Notification{}, apperr.BadRequest("empty")
	}
	f.recorded = append(f.recorded, message)
	return Notification{ID: uuid.New(), Message: message}, nil
}

func (f *fakeRepo) ListRecent(_ context.Context, limit int) ([]Notification, error) {
	items := make([]Notification, 0, limit)
	for i := len(f.recorded) - 1; i >= 0 && len(items) < limit; i-- {
		items = append(items, Notification{Message: f.recorded[i]})
	}
	return items, nil
}

func TestHandleCoverageLost(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, logger.New("test"))

	err := svc.Handle(context.Background(), events.LeadCoverageLost{
		LeadID:   uuid.New(),
		LeadCode: "AB12CD34",
		ZipCode:  "90210",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	want := "Lead AB12CD34 has been updated to No-coverage because of no realtor in that area"
	if len(repo.recorded) != 1 || repo.recorded[0] != want {
		t.Errorf("recorded = %v, want [%q]", repo.recorded, want)
	}
}

func TestHandleCoverageRestored(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, logger.New("test"))

	err := svc.Handle(context.Background(), events.LeadCoverageRestored{
		LeadID:    uuid.New(),
		LeadCode:  "AB12CD34",
		ZipCode:   "90210",
		RealtorID: uuid.New(),
		AgentCode: "AGENT007",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	want := "AGENT007 covers this area and Lead AB12CD34 is set to accepted"
	if len(repo.recorded) != 1 || repo.recorded[0] != want {
		t.Errorf("recorded = %v, want [%q]", repo.recorded, want)
	}
}

func TestHandleIgnoresUnrelatedEvents(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, logger.New("test"))

	if err := svc.Handle(context.Background(), events.LeadCreated{LeadCode: "XX00YY11"}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(repo.recorded) != 0 {
		t.Errorf("expected no notifications, got %v", repo.recorded)
	}
}
