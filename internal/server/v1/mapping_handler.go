package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modelgate/admin-api/internal/core/services"
	"github.com/modelgate/admin-api/internal/mapping"
	"github.com/modelgate/admin-api/internal/server/middleware"
	"github.com/modelgate/admin-api/internal/server/validator"
	"github.com/modelgate/admin-api/pkg/api"
)

type MappingHandler struct {
	service   *services.MappingService
	validator *validator.Validator
}

func NewMappingHandler(service *services.MappingService, v *validator.Validator) *MappingHandler {
	return &MappingHandler{
		service:   service,
		validator: v,
	}
}

// GetRules returns the stored rule list of one canonical model.
//
// GET /admin/v1/models/:id/mapping-rules
func (h *MappingHandler) GetRules(c *gin.Context) {
	modelID := c.Param("id")

	rules, err := h.service.GetRules(c.Request.Context(), modelID)
	if err != nil {
		if errors.Is(err, services.ErrModelNotFound) {
			_ = c.Error(api.NotFoundError("Unknown model: " + modelID))
			return
		}
		_ = c.Error(api.InternalError("Failed to load mapping rules", err))
		return
	}

	c.JSON(http.StatusOK, api.MappingRulesResponse{
		ModelID: modelID,
		Rules:   rules,
	})
}

// ReplaceRules swaps the full rule list of one canonical model. A rejected
// list returns 400 with the per-rule reasons and leaves storage untouched.
//
// PUT /admin/v1/models/:id/mapping-rules
func (h *MappingHandler) ReplaceRules(c *gin.Context) {
	modelID := c.Param("id")

	var req api.ReplaceRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	results, err := h.service.ReplaceRules(c.Request.Context(), modelID, req.Rules, middleware.Actor(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrModelNotFound):
			_ = c.Error(api.NotFoundError("Unknown model: " + modelID))
		case errors.Is(err, services.ErrRulesRejected):
			_ = c.Error(api.BadRequestError("One or more rules were rejected",
				api.WithExtension("results", toRuleValidations(req.Rules, results))))
		default:
			_ = c.Error(api.InternalError("Failed to replace mapping rules", err))
		}
		return
	}

	c.JSON(http.StatusOK, api.MappingRulesResponse{
		ModelID: modelID,
		Rules:   mapping.NormalizeRules(req.Rules),
	})
}

// Validate checks a rule list without persisting anything, for inline
// feedback while the operator types.
//
// POST /admin/v1/mapping/validate
func (h *MappingHandler) Validate(c *gin.Context) {
	var req api.ValidateRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	results, ok := h.service.ValidateRules(req.Rules)

	c.JSON(http.StatusOK, api.ValidateRulesResponse{
		Valid:   ok,
		Results: toRuleValidations(req.Rules, results),
	})
}

// Preview evaluates a rule list against every active key whitelist without
// saving it.
//
// POST /admin/v1/mapping/preview
func (h *MappingHandler) Preview(c *gin.Context) {
	var req api.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	resp, err := h.service.Preview(c.Request.Context(), req.ModelID, req.Rules, req.IncludeNames)
	if err != nil {
		_ = c.Error(api.InternalError("Failed to compute mapping preview", err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func toRuleValidations(rules []string, results []mapping.Result) []api.RuleValidation {
	out := make([]api.RuleValidation, 0, len(results))
	for i, r := range results {
		rv := api.RuleValidation{Valid: r.Valid, Reason: r.Reason}
		if i < len(rules) {
			rv.Rule = rules[i]
		}
		out = append(out, rv)
	}
	return out
}
