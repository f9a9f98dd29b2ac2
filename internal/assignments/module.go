// Package assignments provides the assignment ledger bounded context module.
package assignments

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"realtor_portal_backend/internal/assignments/handler"
	"realtor_portal_backend/internal/assignments/repository"
	"realtor_portal_backend/internal/assignments/service"
	"realtor_portal_backend/internal/events"
	apphttp "realtor_portal_backend/internal/http"
	"realtor_portal_backend/internal/users"
	"realtor_portal_backend/platform/httpkit"
	"realtor_portal_backend/platform/logger"
	"realtor_portal_backend/platform/validator"
)

// Module is the assignments bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the assignments module. The lead and
// realtor stores come from their owning modules.
func NewModule(pool *pgxpool.Pool, leadStore service.LeadStore, realtorStore service.RealtorStore, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, leadStore, realtorStore, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "assignments"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts assignment routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	supportOnly := httpkit.RequireRole(users.RoleSupport, users.RoleAdmin)
	ctx.Protected.POST("/leads/:id/assignments", supportOnly, m.handler.Assign)
	ctx.Protected.GET("/leads/:id/assignments", supportOnly, m.handler.ListForLead)

	realtorOnly := httpkit.RequireRole(users.RoleRealtor)
	group := ctx.Protected.Group("/assignments")
	group.GET("", realtorOnly, m.handler.ListForRealtor)
	group.PATCH("/:id/status", realtorOnly, m.handler.UpdateStatus)
	group.PUT("/:id/comment", realtorOnly, m.handler.SetComment)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
