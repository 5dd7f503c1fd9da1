package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modelgate/admin-api/internal/core/services"
	"github.com/modelgate/admin-api/pkg/api"
)

type KeyHandler struct {
	service *services.MappingService
}

func NewKeyHandler(service *services.MappingService) *KeyHandler {
	return &KeyHandler{service: service}
}

// ListKeys returns all active API keys with their model whitelists. Key
// hashes never leave the store layer.
//
// GET /admin/v1/keys
func (h *KeyHandler) ListKeys(c *gin.Context) {
	keys, err := h.service.ListKeys(c.Request.Context())
	if err != nil {
		_ = c.Error(api.InternalError("Failed to list keys", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   keys,
	})
}
