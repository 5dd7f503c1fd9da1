package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modelgate/admin-api/internal/core/services"
	"github.com/modelgate/admin-api/pkg/api"
)

type ProviderHandler struct {
	service *services.MappingService
}

func NewProviderHandler(service *services.MappingService) *ProviderHandler {
	return &ProviderHandler{service: service}
}

// ListProviders returns all enabled upstream providers.
//
// GET /admin/v1/providers
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	providers, err := h.service.ListProviders(c.Request.Context())
	if err != nil {
		_ = c.Error(api.InternalError("Failed to list providers", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   providers,
	})
}

// ListModels returns all canonical models with pricing.
//
// GET /admin/v1/models
func (h *ProviderHandler) ListModels(c *gin.Context) {
	models, err := h.service.ListModels(c.Request.Context())
	if err != nil {
		_ = c.Error(api.InternalError("Failed to list models", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   models,
	})
}
