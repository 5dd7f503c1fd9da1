package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/modelgate/admin-api/internal/core/services"
	"github.com/modelgate/admin-api/pkg/api"
)

type AuditHandler struct {
	service *services.MappingService
}

func NewAuditHandler(service *services.MappingService) *AuditHandler {
	return &AuditHandler{service: service}
}

// ListRecent returns the newest administrative changes.
//
// GET /admin/v1/audit?limit=50
func (h *AuditHandler) ListRecent(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			_ = c.Error(api.BadRequestError("limit must be an integer between 1 and 500"))
			return
		}
		limit = parsed
	}

	events, err := h.service.RecentAudit(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(api.InternalError("Failed to load audit events", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   events,
	})
}
