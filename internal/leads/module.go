// Package leads provides the lead lifecycle bounded context module.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"realtor_portal_backend/internal/events"
	apphttp "realtor_portal_backend/internal/http"
	"realtor_portal_backend/internal/leads/handler"
	"realtor_portal_backend/internal/leads/repository"
	"realtor_portal_backend/internal/leads/service"
	"realtor_portal_backend/internal/users"
	"realtor_portal_backend/platform/httpkit"
	"realtor_portal_backend/platform/logger"
	"realtor_portal_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the leads module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for the reconciler's sweeps.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	group.POST("", httpkit.RequireRole(users.RoleLeadgen, users.RoleAdmin), m.handler.Create)
	group.GET("", m.handler.List)
	group.GET("/metrics", httpkit.RequireRole(users.RoleLeadgen, users.RoleAdmin), m.handler.Metrics)
	group.GET("/:id", m.handler.GetByID)
	group.PUT("/:id", httpkit.RequireRole(users.RoleQA, users.RoleAdmin), m.handler.Update)
	group.PATCH("/:id/status", httpkit.RequireRole(users.RoleQA, users.RoleSupport, users.RoleAdmin), m.handler.UpdateStatus)
	group.DELETE("/:id", httpkit.RequireRole(users.RoleAdmin), m.handler.Delete)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
