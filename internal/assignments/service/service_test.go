package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"realtor_portal_backend/internal/assignments/domain"
	"realtor_portal_backend/internal/assignments/repository"
	"realtor_portal_backend/internal/assignments/transport"
	"realtor_portal_backend/internal/events"
	leaddomain "realtor_portal_backend/internal/leads/domain"
	realtorrepo "realtor_portal_backend/internal/realtors/repository"
	"realtor_portal_backend/platform/apperr"
	"realtor_portal_backend/platform/logger"
)

type fakeLedger struct {
	assignments map[uuid.UUID]domain.Assignment
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{assignments: make(map[uuid.UUID]domain.Assignment)}
}

func (f *fakeLedger) add(leadID, userID uuid.UUID, status domain.Status) domain.Assignment {
	a := domain.Assignment{
		ID: uuid.New(), LeadID: leadID, UserID: userID,
		Status: status, SentDate: time.Now(), UpdatedAt: time.Now(),
	}
	f.assignments[a.ID] = a
	return a
}

func (f *fakeLedger) Create(_ context.Context, leadID, userID uuid.UUID) (domain.Assignment, error) {
	return f.add(leadID, userID, domain.StatusAssigned), nil
}

func (f *fakeLedger) GetByID(_ context.Context, id uuid.UUID) (domain.Assignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return domain.Assignment{}, apperr.NotFound("assignment not found")
	}
	return a, nil
}

func (f *fakeLedger) ListForLead(_ context.Context, leadID uuid.UUID) ([]repository.AssignmentWithRealtor, error) {
	items := make([]repository.AssignmentWithRealtor, 0)
	for _, a := range f.assignments {
		if a.LeadID == leadID {
			items = append(items, repository.AssignmentWithRealtor{Assignment: a})
		}
	}
	return items, nil
}

func (f *fakeLedger) ListForRealtor(_ context.Context, userID uuid.UUID) ([]repository.AssignmentWithLead, error) {
	items := make([]repository.AssignmentWithLead, 0)
	for _, a := range f.assignments {
		if a.UserID == userID && !domain.IsLosing(a.Status) {
			items = append(items, repository.AssignmentWithLead{Assignment: a})
		}
	}
	return items, nil
}

func (f *fakeLedger) UpdateStatus(_ context.Context, params repository.UpdateStatusParams) (domain.Assignment, error) {
	a, ok := f.assignments[params.ID]
	if !ok {
		return domain.Assignment{}, apperr.NotFound("assignment not found")
	}
	a.Status = params.Status
	if params.CallbackTime != nil {
		a.CallbackTime = params.CallbackTime
	}
	f.assignments[params.ID] = a
	return a, nil
}

func (f *fakeLedger) SignAgreement(_ context.Context, id uuid.UUID, callbackTime *time.Time) (repository.SignResult, error) {
	winner, ok := f.assignments[id]
	if !ok {
		return repository.SignResult{}, apperr.NotFound("assignment not found")
	}
	for _, a := range f.assignments {
		if a.LeadID == winner.LeadID && a.ID != id && domain.IsWin(a.Status) {
			return repository.SignResult{}, apperr.Conflict("another realtor already signed a listing agreement for this lead")
		}
	}

	invalidated := 0
	for sid, a := range f.assignments {
		if a.LeadID == winner.LeadID && a.ID != id {
			a.Status = domain.StatusTakenByOther
			f.assignments[sid] = a
			invalidated++
		}
	}

	winner.Status = domain.StatusAgreementSigned
	if callbackTime != nil {
		winner.CallbackTime = callbackTime
	}
	f.assignments[id] = winner
	return repository.SignResult{Assignment: winner, Invalidated: invalidated}, nil
}

func (f *fakeLedger) HasWinner(_ context.Context, leadID uuid.UUID) (bool, error) {
	for _, a := range f.assignments {
		if a.LeadID == leadID && domain.IsWin(a.Status) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) SetComment(_ context.Context, id uuid.UUID, comment string) (domain.Assignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return domain.Assignment{}, apperr.NotFound("assignment not found")
	}
	a.Comments = &comment
	f.assignments[id] = a
	return a, nil
}

type fakeLeadStore struct {
	leads map[uuid.UUID]leaddomain.Lead
}

func (f *fakeLeadStore) GetByID(_ context.Context, id uuid.UUID) (leaddomain.Lead, error) {
	l, ok := f.leads[id]
	if !ok {
		return leaddomain.Lead{}, apperr.NotFound("lead not found")
	}
	return l, nil
}

type fakeRealtorStore struct {
	realtors map[uuid.UUID]realtorrepo.Realtor
}

func (f *fakeRealtorStore) GetByID(_ context.Context, id uuid.UUID) (realtorrepo.Realtor, error) {
	r, ok := f.realtors[id]
	if !ok {
		return realtorrepo.Realtor{}, apperr.NotFound("realtor not found")
	}
	return r, nil
}

type fixture struct {
	svc     *Service
	ledger  *fakeLedger
	leadID  uuid.UUID
	realtor realtorrepo.Realtor
}

func newFixture() *fixture {
	log := logger.New("test")
	ledger := newFakeLedger()

	leadID := uuid.New()
	leadStore := &fakeLeadStore{leads: map[uuid.UUID]leaddomain.Lead{
		leadID: {ID: leadID, LeadCode: "AB12CD34", ZipCode: "90210", Status: leaddomain.StatusAccepted},
	}}

	userID := uuid.New()
	realtor := realtorrepo.Realtor{
		ID: uuid.New(), AgentCode: "AGENT007", FirstName: "Ann", LastName: "Agent",
		IsActive: true, UserID: &userID,
	}
	realtorStore := &fakeRealtorStore{realtors: map[uuid.UUID]realtorrepo.Realtor{realtor.ID: realtor}}

	svc := New(ledger, leadStore, realtorStore, events.NewInMemoryBus(log), log)
	return &fixture{svc: svc, ledger: ledger, leadID: leadID, realtor: realtor}
}

func TestAssign(t *testing.T) {
	fx := newFixture()

	resp, err := fx.svc.Assign(context.Background(), fx.leadID, transport.AssignRequest{RealtorID: fx.realtor.ID})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if resp.Status != string(domain.StatusAssigned) {
		t.Errorf("status = %q, want assigned", resp.Status)
	}
	if resp.AgentCode != "AGENT007" {
		t.Errorf("agentCode = %q", resp.AgentCode)
	}
	if !resp.CanChangeStatus {
		t.Error("fresh assignment should be changeable")
	}
}

func TestAssignRealtorWithoutAccount(t *testing.T) {
	fx := newFixture()

	orphan := realtorrepo.Realtor{ID: uuid.New(), AgentCode: "NOACCT", IsActive: true}
	store := &fakeRealtorStore{realtors: map[uuid.UUID]realtorrepo.Realtor{orphan.ID: orphan}}
	log := logger.New("test")
	svc := New(fx.ledger, &fakeLeadStore{leads: map[uuid.UUID]leaddomain.Lead{fx.leadID: {ID: fx.leadID}}}, store, events.NewInMemoryBus(log), log)

	_, err := svc.Assign(context.Background(), fx.leadID, transport.AssignRequest{RealtorID: orphan.ID})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusOwnership(t *testing.T) {
	fx := newFixture()
	a := fx.ledger.add(fx.leadID, *fx.realtor.UserID, domain.StatusAssigned)

	_, err := fx.svc.UpdateStatus(context.Background(), a.ID, uuid.New(), transport.UpdateStatusRequest{Status: "Follow up needed"})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for foreign actor, got %v", err)
	}

	resp, err := fx.svc.UpdateStatus(context.Background(), a.ID, *fx.realtor.UserID, transport.UpdateStatusRequest{Status: "Follow up needed"})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if resp.Status != string(domain.StatusFollowUpNeeded) {
		t.Errorf("status = %q", resp.Status)
	}
}

func TestUpdateStatusRejectsSystemStatuses(t *testing.T) {
	fx := newFixture()
	a := fx.ledger.add(fx.leadID, *fx.realtor.UserID, domain.StatusAssigned)

	for _, raw := range []string{"assigned", "Lead taken by another realtor", "bogus"} {
		_, err := fx.svc.UpdateStatus(context.Background(), a.ID, *fx.realtor.UserID, transport.UpdateStatusRequest{Status: raw})
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("status %q: expected validation error, got %v", raw, err)
		}
	}
}

func TestWinRelabelsSiblings(t *testing.T) {
	fx := newFixture()
	winnerUser := *fx.realtor.UserID
	otherUser := uuid.New()

	winner := fx.ledger.add(fx.leadID, winnerUser, domain.StatusAppointmentScheduled)
	sibling := fx.ledger.add(fx.leadID, otherUser, domain.StatusFollowUpNeeded)
	lost := fx.ledger.add(fx.leadID, uuid.New(), domain.StatusNotInterested)

	resp, err := fx.svc.UpdateStatus(context.Background(), winner.ID, winnerUser, transport.UpdateStatusRequest{Status: "Listing Agreement Signed"})
	if err != nil {
		t.Fatalf("win transition: %v", err)
	}
	if resp.Status != string(domain.StatusAgreementSigned) {
		t.Errorf("winner status = %q", resp.Status)
	}
	if resp.CanChangeStatus {
		t.Error("signed agreement must not be changeable")
	}

	// Every other assignment on the lead is relabeled, losing statuses included.
	if got := fx.ledger.assignments[sibling.ID].Status; got != domain.StatusTakenByOther {
		t.Errorf("sibling status = %q, want taken by another realtor", got)
	}
	if got := fx.ledger.assignments[lost.ID].Status; got != domain.StatusTakenByOther {
		t.Errorf("lost sibling status = %q, want taken by another realtor", got)
	}
}

func TestSecondWinConflicts(t *testing.T) {
	fx := newFixture()
	firstUser := *fx.realtor.UserID
	secondUser := uuid.New()

	first := fx.ledger.add(fx.leadID, firstUser, domain.StatusAssigned)
	second := fx.ledger.add(fx.leadID, secondUser, domain.StatusAssigned)

	if _, err := fx.svc.UpdateStatus(context.Background(), first.ID, firstUser, transport.UpdateStatusRequest{Status: "Listing Agreement Signed"}); err != nil {
		t.Fatalf("first win: %v", err)
	}

	_, err := fx.svc.UpdateStatus(context.Background(), second.ID, secondUser, transport.UpdateStatusRequest{Status: "Listing Agreement Signed"})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on second win, got %v", err)
	}

	// Winner cannot move off the signed status either.
	_, err = fx.svc.UpdateStatus(context.Background(), first.ID, firstUser, transport.UpdateStatusRequest{Status: "Follow up needed"})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict changing a signed agreement, got %v", err)
	}
}

func TestSetComment(t *testing.T) {
	fx := newFixture()
	a := fx.ledger.add(fx.leadID, *fx.realtor.UserID, domain.StatusAssigned)

	resp, err := fx.svc.SetComment(context.Background(), a.ID, *fx.realtor.UserID, transport.CommentRequest{Comment: "<b>called</b> twice"})
	if err != nil {
		t.Fatalf("SetComment: %v", err)
	}
	if resp.Comments == nil || *resp.Comments != "called twice" {
		t.Errorf("comment = %v, want sanitized overwrite", resp.Comments)
	}

	_, err = fx.svc.SetComment(context.Background(), a.ID, uuid.New(), transport.CommentRequest{Comment: "nope"})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
