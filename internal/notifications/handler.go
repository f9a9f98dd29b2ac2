package notifications

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"realtor_portal_backend/platform/httpkit"
)

// Handler handles HTTP requests for the notification feed.
type Handler struct {
	svc *Service
}

// NewHandler creates a notification handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ListRecent returns the newest notifications.
// GET /api/v1/notifications
func (h *Handler) ListRecent(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httpkit.Error(c, http.StatusBadRequest, "invalid limit", nil)
			return
		}
		limit = parsed
	}

	items, err := h.svc.ListRecent(c.Request.Context(), limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": items})
}
