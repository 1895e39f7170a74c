package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"trade-reconciler/internal/logger"

	"github.com/caarlos0/env/v10"
	"github.com/gin-gonic/gin"
)

// ServerConfig is read from the environment.
type ServerConfig struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

type Server struct {
	engine *gin.Engine
	server *http.Server
	cfg    ServerConfig
}

func NewServer(h *Handler, cfg ServerConfig) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(loggerMiddleware())

	s := &Server{
		engine: engine,
		cfg:    cfg,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	s.setupRoutes(h)
	return s
}

func (s *Server) setupRoutes(h *Handler) {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	{
		api.POST("/detect", h.Detect)
		api.POST("/import", h.Import)
		api.POST("/pnl", h.PnL)
		api.POST("/risk-reward", h.RiskReward)
	}
}

func (s *Server) Handler() http.Handler { return s.engine }

// Start blocks until the server stops. A clean shutdown returns nil.
func (s *Server) Start(ctx context.Context) error {
	logger.Info(ctx, "HTTP server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info(c.Request.Context(), "HTTP request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}
