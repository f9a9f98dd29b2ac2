package coverage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"realtor_portal_backend/internal/events"
	leaddomain "realtor_portal_backend/internal/leads/domain"
	realtorrepo "realtor_portal_backend/internal/realtors/repository"
	"realtor_portal_backend/platform/logger"
)

type fakeLeadStore struct {
	mu       sync.Mutex
	accepted []leaddomain.Lead
	orphaned []leaddomain.Lead
	statuses map[uuid.UUID]leaddomain.Status

	startedOnce sync.Once
	started     chan struct{}
	block       chan struct{}
}

func (f *fakeLeadStore) ListAcceptedWithoutAssignments(ctx context.Context) ([]leaddomain.Lead, error) {
	if f.started != nil {
		f.startedOnce.Do(func() { close(f.started) })
	}
	if f.block != nil {
		<-f.block
	}
	return f.accepted, nil
}

func (f *fakeLeadStore) ListNoCoverage(ctx context.Context) ([]leaddomain.Lead, error) {
	return f.orphaned, nil
}

func (f *fakeLeadStore) UpdateStatus(ctx context.Context, id uuid.UUID, status leaddomain.Status) (leaddomain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statuses == nil {
		f.statuses = make(map[uuid.UUID]leaddomain.Status)
	}
	f.statuses[id] = status
	return leaddomain.Lead{ID: id, Status: status}, nil
}

type fakeRealtorStore struct {
	active []realtorrepo.Realtor
}

func (f *fakeRealtorStore) ListActive(ctx context.Context) ([]realtorrepo.Realtor, error) {
	return f.active, nil
}

type captureBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *captureBus) Subscribe(eventName string, handler events.Handler) {}

func (b *captureBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *captureBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func newTestReconciler(leads *fakeLeadStore, realtors *fakeRealtorStore, bus *captureBus) *Reconciler {
	return NewReconciler(leads, realtors, NewMatcher(), bus, logger.New("test"), time.Second)
}

func lead(zip string) leaddomain.Lead {
	return leaddomain.Lead{ID: uuid.New(), LeadCode: "LD" + zip, ZipCode: zip}
}

func TestRunTickDemotesUncoveredLeads(t *testing.T) {
	uncovered := lead("10001")
	covered := lead("90210")
	leads := &fakeLeadStore{accepted: []leaddomain.Lead{uncovered, covered}}
	realtors := &fakeRealtorStore{active: []realtorrepo.Realtor{
		{ID: uuid.New(), AgentCode: "AG-1", IsActive: true, ZipCodes: []string{"90210"}},
	}}
	bus := &captureBus{}

	stats, err := newTestReconciler(leads, realtors, bus).RunTick(context.Background())
	if err != nil {
		t.Fatalf("RunTick: %v", err)
	}
	if stats.Demoted != 1 {
		t.Fatalf("demoted = %d, want 1", stats.Demoted)
	}
	if got := leads.statuses[uncovered.ID]; got != leaddomain.StatusNoCoverage {
		t.Fatalf("uncovered lead status = %q, want %q", got, leaddomain.StatusNoCoverage)
	}
	if _, touched := leads.statuses[covered.ID]; touched {
		t.Fatal("covered lead should not have been demoted")
	}
	if len(bus.events) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.events))
	}
	lost, ok := bus.events[0].(events.LeadCoverageLost)
	if !ok {
		t.Fatalf("event type = %T, want LeadCoverageLost", bus.events[0])
	}
	if lost.LeadID != uncovered.ID || lost.LeadCode != uncovered.LeadCode || lost.ZipCode != "10001" {
		t.Fatalf("unexpected event payload: %+v", lost)
	}
}

func TestRunTickPromotesCoveredLeads(t *testing.T) {
	orphan := lead("30301")
	stillOrphan := lead("99999")
	leads := &fakeLeadStore{orphaned: []leaddomain.Lead{orphan, stillOrphan}}
	realtorID := uuid.New()
	central := "30301"
	realtors := &fakeRealtorStore{active: []realtorrepo.Realtor{
		{ID: realtorID, AgentCode: "AG-7", IsActive: true, CentralZipCode: &central, Radius: 10},
	}}
	bus := &captureBus{}

	stats, err := newTestReconciler(leads, realtors, bus).RunTick(context.Background())
	if err != nil {
		t.Fatalf("RunTick: %v", err)
	}
	if stats.Promoted != 1 {
		t.Fatalf("promoted = %d, want 1", stats.Promoted)
	}
	if got := leads.statuses[orphan.ID]; got != leaddomain.StatusAccepted {
		t.Fatalf("orphan status = %q, want %q", got, leaddomain.StatusAccepted)
	}
	if _, touched := leads.statuses[stillOrphan.ID]; touched {
		t.Fatal("uncovered orphan should stay no_coverage")
	}
	restored, ok := bus.events[0].(events.LeadCoverageRestored)
	if !ok {
		t.Fatalf("event type = %T, want LeadCoverageRestored", bus.events[0])
	}
	if restored.RealtorID != realtorID || restored.AgentCode != "AG-7" {
		t.Fatalf("unexpected covering realtor in event: %+v", restored)
	}
}

func TestRunTickIgnoresInactiveRealtors(t *testing.T) {
	l := lead("60601")
	leads := &fakeLeadStore{accepted: []leaddomain.Lead{l}}
	realtors := &fakeRealtorStore{active: []realtorrepo.Realtor{
		{ID: uuid.New(), AgentCode: "AG-2", IsActive: false, ZipCodes: []string{"60601"}},
	}}
	bus := &captureBus{}

	stats, err := newTestReconciler(leads, realtors, bus).RunTick(context.Background())
	if err != nil {
		t.Fatalf("RunTick: %v", err)
	}
	if stats.Demoted != 1 {
		t.Fatalf("demoted = %d, want 1: inactive realtors cannot hold coverage", stats.Demoted)
	}
}

func TestRunTickIsIdempotent(t *testing.T) {
	leads := &fakeLeadStore{}
	realtors := &fakeRealtorStore{}
	bus := &captureBus{}
	rec := newTestReconciler(leads, realtors, bus)

	for i := 0; i < 3; i++ {
		stats, err := rec.RunTick(context.Background())
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if stats.Demoted != 0 || stats.Promoted != 0 {
			t.Fatalf("tick %d moved leads on empty stores: %+v", i, stats)
		}
	}
	if len(bus.events) != 0 {
		t.Fatalf("published %d events, want 0", len(bus.events))
	}
}

func TestRunTickRejectsConcurrentTick(t *testing.T) {
	leads := &fakeLeadStore{
		started: make(chan struct{}),
		block:   make(chan struct{}),
	}
	rec := newTestReconciler(leads, &fakeRealtorStore{}, &captureBus{})

	done := make(chan error, 1)
	go func() {
		_, err := rec.RunTick(context.Background())
		done <- err
	}()

	// Wait until the first tick is inside the sweep before racing it.
	select {
	case <-leads.started:
	case <-time.After(time.Second):
		t.Fatal("first tick never started its sweep")
	}
	if _, err := rec.RunTick(context.Background()); err != ErrTickInProgress {
		t.Fatalf("concurrent tick error = %v, want ErrTickInProgress", err)
	}

	close(leads.block)
	if err := <-done; err != nil {
		t.Fatalf("first tick: %v", err)
	}
}
