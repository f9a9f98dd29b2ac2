package coverage

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"realtor_portal_backend/internal/events"
	leaddomain "realtor_portal_backend/internal/leads/domain"
	realtorrepo "realtor_portal_backend/internal/realtors/repository"
	"realtor_portal_backend/platform/logger"
)

// ErrTickInProgress is returned when a tick is requested while another one is
// still running.
var ErrTickInProgress = errors.New("reconcile tick already in progress")

// LeadStore is the slice of the lead repository the reconciler needs.
type LeadStore interface {
	ListAcceptedWithoutAssignments(ctx context.Context) ([]leaddomain.Lead, error)
	ListNoCoverage(ctx context.Context) ([]leaddomain.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status leaddomain.Status) (leaddomain.Lead, error)
}

// RealtorStore is the slice of the realtor repository the reconciler needs.
type RealtorStore interface {
	ListActive(ctx context.Context) ([]realtorrepo.Realtor, error)
}

// TickStats summarizes one reconcile tick.
type TickStats struct {
	Demoted  int `json:"demoted"`
	Promoted int `json:"promoted"`
}

// Reconciler periodically reconciles lead statuses against realtor coverage.
// Sweep A demotes accepted, unassigned leads nobody covers to no_coverage;
// Sweep B promotes no_coverage leads somebody now covers back to accepted.
type Reconciler struct {
	leads       LeadStore
	realtors    RealtorStore
	matcher     Matcher
	bus         events.Bus
	log         *logger.Logger
	tickTimeout time.Duration
	running     atomic.Bool
}

// NewReconciler creates a reconciler. tickTimeout bounds one tick and should
// stay below the schedule interval.
func NewReconciler(leads LeadStore, realtors RealtorStore, matcher Matcher, bus events.Bus, log *logger.Logger, tickTimeout time.Duration) *Reconciler {
	return &Reconciler{
		leads:       leads,
		realtors:    realtors,
		matcher:     matcher,
		bus:         bus,
		log:         log,
		tickTimeout: tickTimeout,
	}
}

// RunTick runs one reconcile pass. A second concurrent call returns
// ErrTickInProgress. Per-lead failures are logged and skipped so one bad row
// cannot stall the sweep.
func (r *Reconciler) RunTick(ctx context.Context) (TickStats, error) {
	if !r.running.CompareAndSwap(false, true) {
		return TickStats{}, ErrTickInProgress
	}
	defer r.running.Store(false)

	if r.tickTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.tickTimeout)
		defer cancel()
	}

	active, err := r.realtors.ListActive(ctx)
	if err != nil {
		return TickStats{}, err
	}

	var stats TickStats
	stats.Demoted = r.sweepDemotions(ctx, active)
	stats.Promoted = r.sweepPromotions(ctx, active)

	r.log.Info("coverage reconcile tick complete",
		"demoted", stats.Demoted,
		"promoted", stats.Promoted,
		"active_realtors", len(active),
	)
	return stats, nil
}

func (r *Reconciler) sweepDemotions(ctx context.Context, active []realtorrepo.Realtor) int {
	candidates, err := r.leads.ListAcceptedWithoutAssignments(ctx)
	if err != nil {
		r.log.Error("list demotion candidates", "error", err)
		return 0
	}

	demoted := 0
	for _, lead := range candidates {
		if AnyActiveCovers(r.matcher, active, lead.ZipCode) {
			continue
		}
		if _, err := r.leads.UpdateStatus(ctx, lead.ID, leaddomain.StatusNoCoverage); err != nil {
			r.log.SweepItemError("demotion", lead.ID.String(), err)
			continue
		}
		demoted++

		if err := r.bus.PublishSync(ctx, events.LeadCoverageLost{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			LeadCode:  lead.LeadCode,
			ZipCode:   lead.ZipCode,
		}); err != nil {
			r.log.SweepItemError("demotion", lead.ID.String(), err)
		}
	}
	return demoted
}

func (r *Reconciler) sweepPromotions(ctx context.Context, active []realtorrepo.Realtor) int {
	candidates, err := r.leads.ListNoCoverage(ctx)
	if err != nil {
		r.log.Error("list promotion candidates", "error", err)
		return 0
	}

	promoted := 0
	for _, lead := range candidates {
		matches := ActiveMatches(r.matcher, active, lead.ZipCode)
		if len(matches) == 0 {
			continue
		}
		if _, err := r.leads.UpdateStatus(ctx, lead.ID, leaddomain.StatusAccepted); err != nil {
			r.log.SweepItemError("promotion", lead.ID.String(), err)
			continue
		}
		promoted++

		// Credit the longest-standing covering realtor in the feed entry.
		covering := matches[0]
		if err := r.bus.PublishSync(ctx, events.LeadCoverageRestored{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			LeadCode:  lead.LeadCode,
			ZipCode:   lead.ZipCode,
			RealtorID: covering.ID,
			AgentCode: covering.AgentCode,
		}); err != nil {
			r.log.SweepItemError("promotion", lead.ID.String(), err)
		}
	}
	return promoted
}
