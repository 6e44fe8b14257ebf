package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prodscope/prodscope/internal/observability"
	"github.com/prodscope/prodscope/pkg/analysis"
	"github.com/prodscope/prodscope/pkg/datasource"
	"github.com/prodscope/prodscope/pkg/llm"
	"github.com/rs/zerolog"
)

const serverVersion = "1.0.0"

// Config holds server configuration
type Config struct {
	Host string
	Port int
}

// Server is the HTTP surface over the orchestration and analysis layers.
type Server struct {
	cfg      Config
	engine   *gin.Engine
	server   *http.Server
	llm      *llm.Manager
	analyses *analysis.Manager
	catalog  *datasource.Catalog
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// New creates a new server.
func New(cfg Config, llmManager *llm.Manager, analyses *analysis.Manager, catalog *datasource.Catalog, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:      cfg,
		engine:   gin.New(),
		llm:      llmManager,
		analyses: analyses,
		catalog:  catalog,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.With().Str("component", "http-server").Logger(),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestLogger())
	s.registerRoutes()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/metrics", gin.WrapH(observability.Handler()))

	api := s.engine.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/providers", s.handleProviders)
		api.GET("/data-sources/status", s.handleDataSources)

		api.POST("/chat/message", s.handleChatMessage)

		api.POST("/analysis/start", s.handleAnalysisStart)
		api.GET("/analysis/:id/status", s.handleAnalysisStatus)
		api.GET("/analysis/:id/results", s.handleAnalysisResults)
		api.GET("/analysis/:id/watch", s.handleAnalysisWatch)
	}
}

// Start runs the server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("Request handled")
	}
}
