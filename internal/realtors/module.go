// Package realtors provides the realtor onboarding bounded context module.
package realtors

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "realtor_portal_backend/internal/http"
	"realtor_portal_backend/internal/realtors/handler"
	"realtor_portal_backend/internal/realtors/repository"
	"realtor_portal_backend/internal/realtors/service"
	"realtor_portal_backend/internal/users"
	"realtor_portal_backend/platform/httpkit"
	"realtor_portal_backend/platform/logger"
	"realtor_portal_backend/platform/validator"
)

// Module is the realtors bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the realtors module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "realtors"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for the matcher and the ledger.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts realtor routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/realtors")
	group.POST("", httpkit.RequireRole(users.RoleSales, users.RoleAdmin), m.handler.Create)
	group.GET("", httpkit.RequireRole(users.RoleSales, users.RoleSupport, users.RoleAdmin), m.handler.List)
	group.GET("/summary", httpkit.RequireRole(users.RoleSales, users.RoleAdmin), m.handler.SalesSummary)
	group.GET("/:id", httpkit.RequireRole(users.RoleSales, users.RoleSupport, users.RoleAdmin), m.handler.GetByID)
	group.PATCH("/:id", httpkit.RequireRole(users.RoleSupport, users.RoleAdmin), m.handler.Update)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
