// Package server exposes the pipeline over HTTP. This is a collaborator
// boundary for the surrounding web application, not a user-facing surface.
package server

import (
	"fmt"
	"net/http"

	"fireline-notifier/internal/common/logger"
	"fireline-notifier/internal/pipeline"

	"github.com/gin-gonic/gin"
)

type Server struct {
	engine  *gin.Engine
	service *pipeline.Service
	logger  logger.Logger
}

func New(service *pipeline.Service, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:  engine,
		service: service,
		logger:  log,
	}
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	v1 := s.engine.Group("/v1")
	v1.POST("/status-events", s.handleStatusEvent)
	v1.GET("/catalog", s.handleCatalog)
	v1.POST("/catalog/reload", s.handleCatalogReload)
}

// Handler returns the http.Handler for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run(port int) error {
	return s.engine.Run(fmt.Sprintf(":%d", port))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
