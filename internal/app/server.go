// File: internal/app/server.go
package app

import (
	"context"
	"net/http"
	"time"

	"puck_buddy_auth/internal/auth"
	"puck_buddy_auth/internal/config"
	"puck_buddy_auth/internal/jobs"
	"puck_buddy_auth/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server runs the long-lived pieces of the app: the cache sweep job and the
// local debug HTTP surface that exposes the auth state to development tools.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	coordinator *auth.Coordinator

	cacheSweepJob *jobs.CacheSweepJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	coordinator *auth.Coordinator,
	cacheSweepJob *jobs.CacheSweepJob,
) (*Server, error) {
	if cfg.AppEnv == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	s := &Server{
		router:        router,
		cfg:           cfg,
		logger:        logger,
		coordinator:   coordinator,
		cacheSweepJob: cacheSweepJob,
	}

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Puck Buddy auth service is healthy!"})
	})

	dbg := router.Group("/debug")
	dbg.GET("/auth", s.handleAuthState)
	dbg.POST("/signout", s.handleSignOut)
	dbg.POST("/refresh", s.handleRefresh)

	if cfg.DebugAddr != "" {
		s.httpServer = &http.Server{
			Addr:         cfg.DebugAddr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  120 * time.Second,
		}
	}

	return s, nil
}

// Coordinator exposes the auth coordinator to the CLI entry points.
func (s *Server) Coordinator() *auth.Coordinator {
	return s.coordinator
}

type authStateResponse struct {
	IsAuthenticated bool        `json:"isAuthenticated"`
	IsLoading       bool        `json:"isLoading"`
	User            interface{} `json:"user"`
	Error           string      `json:"error,omitempty"`
}

func (s *Server) handleAuthState(c *gin.Context) {
	state := s.coordinator.State()
	resp := authStateResponse{
		IsAuthenticated: state.IsAuthenticated,
		IsLoading:       state.IsLoading,
	}
	if state.User != nil {
		resp.User = state.User
	}
	if state.Err != nil {
		resp.Error = state.Err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSignOut(c *gin.Context) {
	s.coordinator.SignOut(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
}

func (s *Server) handleRefresh(c *gin.Context) {
	s.coordinator.RefreshUser(c.Request.Context())
	s.handleAuthState(c)
}

// Start restores the session, starts the sweep job and, when a debug address
// is configured, serves HTTP until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	if err := s.coordinator.Initialize(ctx); err != nil {
		s.logger.Error("Session restore failed", zap.Error(err))
	}

	if s.cacheSweepJob != nil {
		if err := s.cacheSweepJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start cache sweep job", zap.Error(err))
		}
	} else {
		s.logger.Info("Cache sweep job is not configured, skipping start.")
	}

	if s.httpServer == nil {
		s.logger.Info("Debug HTTP surface disabled (DEBUG_ADDR empty), running headless")
		<-ctx.Done()
		return nil
	}

	s.logger.Info("Debug HTTP server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("app_env", s.cfg.AppEnv),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start debug HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("Debug HTTP server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.cacheSweepJob != nil {
		s.cacheSweepJob.Stop()
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
