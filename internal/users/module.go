package users

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "realtor_portal_backend/internal/http"
	"realtor_portal_backend/platform/httpkit"
)

// Module exposes the current user's profile.
type Module struct {
	repo Repository
}

// NewModule creates the users module.
func NewModule(pool *pgxpool.Pool) *Module {
	return &Module{repo: NewRepo(pool)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "users"
}

// Repository returns the user repository for cross-module lookups.
func (m *Module) Repository() Repository {
	return m.repo
}

// RegisterRoutes mounts the profile route.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/me", m.me)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)

func (m *Module) me(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	user, err := m.repo.GetByID(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, user)
}
