package web

import (
	"context"
	"net/http"

	"intent-miner/config"
	"intent-miner/database"
	"intent-miner/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	runner *service.Runner
	store  *database.PostgresStore
	logger *zap.Logger
	config *config.Config
}

func NewServer(runner *service.Runner, store *database.PostgresStore, logger *zap.Logger, config *config.Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		router: router,
		runner: runner,
		store:  store,
		logger: logger,
		config: config,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.router.POST("/api/discovery/run", s.runDiscovery)
	s.router.POST("/api/audit/run", s.runAudit)
	s.router.GET("/api/runs/:id", s.getRun)
	s.router.GET("/runs/:id/report", s.getRunReport)
}

func (s *Server) Start(ctx context.Context, addr string) error {
	s.logger.Info("Starting web server", zap.String("address", addr))

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Web server failed to start", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	s.logger.Info("Shutting down web server")
	return srv.Shutdown(context.Background())
}
