package coverage

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apphttp "realtor_portal_backend/internal/http"
	"realtor_portal_backend/platform/httpkit"
)

// Module exposes the reconciler over HTTP for manual admin-triggered ticks.
type Module struct {
	reconciler *Reconciler
}

// NewModule creates the coverage module around an already-wired reconciler.
func NewModule(reconciler *Reconciler) *Module {
	return &Module{reconciler: reconciler}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "coverage"
}

// Reconciler returns the underlying reconciler for the scheduler.
func (m *Module) Reconciler() *Reconciler {
	return m.reconciler
}

// RegisterRoutes mounts the admin reconcile trigger.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.POST("/reconcile", m.runTick)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)

func (m *Module) runTick(c *gin.Context) {
	stats, err := m.reconciler.RunTick(c.Request.Context())
	if errors.Is(err, ErrTickInProgress) {
		httpkit.Error(c, http.StatusConflict, "a reconcile tick is already running", nil)
		return
	}
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, stats)
}
