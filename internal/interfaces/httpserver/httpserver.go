package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/janhq/hf-mcp/internal/config"
	"github.com/janhq/hf-mcp/internal/infrastructure/auth"
	"github.com/janhq/hf-mcp/internal/infrastructure/observability"
	"github.com/janhq/hf-mcp/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/hf-mcp/internal/interfaces/httpserver/routes/mcp"
)

// HTTPServer serves the streamable MCP endpoint plus health and metrics.
type HTTPServer struct {
	router        *gin.Engine
	config        *config.Config
	mcpRoute      *mcp.MCPRoute
	authValidator *auth.Validator
}

func NewHTTPServer(
	cfg *config.Config,
	mcpRoute *mcp.MCPRoute,
	authValidator *auth.Validator,
	obs *observability.Provider,
) *HTTPServer {
	// gin debug output would corrupt the stdio protocol stream
	if cfg.Environment == "production" || cfg.IsStdio() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestID())
	if obs != nil {
		router.Use(middlewares.Telemetry(obs.Tracer, obs.Meter))
	}
	router.Use(middlewares.RequestLogger())
	router.Use(middlewares.CORS())
	router.Use(middlewares.MetricsRecorder())

	s := &HTTPServer{
		router:        router,
		config:        cfg,
		mcpRoute:      mcpRoute,
		authValidator: authValidator,
	}
	s.setupRoutes()
	return s
}

func (s *HTTPServer) setupRoutes() {
	// Health check endpoints
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": s.config.ServiceName})
	})

	s.router.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": s.config.ServiceName})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// MCP routes are the only authenticated surface
	v1 := s.router.Group("/v1")
	if s.authValidator != nil {
		v1.Use(s.authValidator.Middleware())
	}
	s.mcpRoute.RegisterRouter(v1)
}

// Handler exposes the configured router.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP listener and shuts down gracefully when ctx is cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.config.Addr(),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.config.Addr()).Msg("HTTP server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
