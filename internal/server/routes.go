package server

import (
	"github.com/modelgate/admin-api/internal/server/middleware"
	v1 "github.com/modelgate/admin-api/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.ErrorHandler())

	// Health Check (Public)
	healthHandler := v1.NewHealthHandler()
	s.router.GET("/health", healthHandler.Health)

	// Admin V1 Group
	admin := s.router.Group("/admin/v1")
	admin.Use(middleware.Tracing("admin-api"))
	admin.Use(middleware.Auth(s.repo, s.config.Auth.StaticKeys))

	limiter := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger)
	admin.Use(limiter.Middleware())
	{
		providerHandler := v1.NewProviderHandler(s.service)
		admin.GET("/providers", providerHandler.ListProviders)
		admin.GET("/models", providerHandler.ListModels)

		mappingHandler := v1.NewMappingHandler(s.service, s.validator)
		admin.GET("/models/:id/mapping-rules", mappingHandler.GetRules)
		admin.PUT("/models/:id/mapping-rules", mappingHandler.ReplaceRules)
		admin.POST("/mapping/validate", mappingHandler.Validate)
		admin.POST("/mapping/preview", mappingHandler.Preview)

		keyHandler := v1.NewKeyHandler(s.service)
		admin.GET("/keys", keyHandler.ListKeys)

		usageHandler := v1.NewUsageHandler(s.service)
		admin.GET("/usage/daily", usageHandler.Daily)

		auditHandler := v1.NewAuditHandler(s.service)
		admin.GET("/audit", auditHandler.ListRecent)
	}
}
