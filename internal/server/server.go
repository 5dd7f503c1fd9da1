package server

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/modelgate/admin-api/internal/config"
	"github.com/modelgate/admin-api/internal/core/services"
	"github.com/modelgate/admin-api/internal/server/middleware"
	"github.com/modelgate/admin-api/internal/server/validator"
	"github.com/modelgate/admin-api/internal/store"
)

type Server struct {
	router    *gin.Engine
	config    *config.Config
	logger    *zap.Logger
	service   *services.MappingService
	repo      store.Repository
	validator *validator.Validator
}

func New(cfg *config.Config, logger *zap.Logger, service *services.MappingService, repo store.Repository) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(ginzap.RecoveryWithZap(logger, true))
	engine.Use(middleware.Logger(logger))

	s := &Server{
		router:    engine,
		config:    cfg,
		logger:    logger,
		service:   service,
		repo:      repo,
		validator: validator.New(),
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
