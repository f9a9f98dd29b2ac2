package notifications

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"realtor_portal_backend/internal/events"
	apphttp "realtor_portal_backend/internal/http"
	"realtor_portal_backend/internal/users"
	"realtor_portal_backend/platform/httpkit"
	"realtor_portal_backend/platform/logger"
)

// Module is the notification feed module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the notifications module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := NewRepo(pool)
	svc := NewService(repo, log)
	return &Module{handler: NewHandler(svc), service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notifications"
}

// Service returns the service layer for external use.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts notification routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/notifications", httpkit.RequireRole(users.RoleSupport, users.RoleAdmin), m.handler.ListRecent)
}

// RegisterHandlers subscribes to coverage events.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.LeadCoverageLost{}.EventName(), m.service)
	bus.Subscribe(events.LeadCoverageRestored{}.EventName(), m.service)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
