package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/modelgate/admin-api/internal/core/services"
	"github.com/modelgate/admin-api/pkg/api"
)

type UsageHandler struct {
	service *services.MappingService
}

func NewUsageHandler(service *services.MappingService) *UsageHandler {
	return &UsageHandler{service: service}
}

// Daily returns aggregated request stats for the dashboard charts.
//
// GET /admin/v1/usage/daily?days=30
func (h *UsageHandler) Daily(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			_ = c.Error(api.BadRequestError("days must be an integer between 1 and 365"))
			return
		}
		days = parsed
	}

	stats, err := h.service.DailyUsage(c.Request.Context(), days)
	if err != nil {
		_ = c.Error(api.InternalError("Failed to load usage stats", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   stats,
	})
}
