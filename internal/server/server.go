package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spamguard/internal/apiclient"
	"spamguard/internal/config"
	"spamguard/internal/handler"
	"spamguard/internal/middleware"
	"spamguard/internal/pipeline"
	"spamguard/internal/repository"
	"spamguard/internal/service"
)

type Server struct {
	router *gin.Engine
	logger *zap.Logger
}

func NewServer(
	cfg *config.Config,
	client *apiclient.Client,
	pipe *pipeline.Pipeline,
	scanLogRepo repository.ScanLogRepository,
	logger *zap.Logger,
) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		logger: logger,
	}

	s.setupRoutes(cfg, client, pipe, scanLogRepo)

	return s
}

func (s *Server) setupRoutes(
	cfg *config.Config,
	client *apiclient.Client,
	pipe *pipeline.Pipeline,
	scanLogRepo repository.ScanLogRepository,
) {
	authService := service.NewAuthService(cfg, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	analyticsHandler := handler.NewAnalyticsHandler(scanLogRepo, s.logger)
	logsHandler := handler.NewLogsHandler(scanLogRepo, s.logger)
	statusHandler := handler.NewStatusHandler(cfg, client, s.logger)
	checkHandler := handler.NewCheckHandler(pipe, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/login", authHandler.Login)

	// Check routes, called by the host platform after content persistence
	checkGroup := s.router.Group("/api/check")
	{
		checkGroup.POST("/post", checkHandler.CheckPost)
		checkGroup.POST("/message", checkHandler.CheckMessage)
		checkGroup.POST("/registration", checkHandler.CheckRegistration)
	}

	// Admin routes
	adminGroup := s.router.Group("/api")
	adminGroup.Use(middleware.AuthMiddleware(authService.JWTSecret(), s.logger))
	{
		adminGroup.GET("/dashboard", analyticsHandler.GetDashboard)
		adminGroup.GET("/status", statusHandler.GetStatus)
		adminGroup.GET("/logs", logsHandler.GetRecent)
		adminGroup.DELETE("/logs/:id", logsHandler.Delete)
		adminGroup.DELETE("/logs", logsHandler.Clear)
		adminGroup.POST("/members/deleted", logsHandler.MemberDeleted)
		adminGroup.POST("/members/merged", logsHandler.MembersMerged)
	}
}

func (s *Server) Run(addr string) {
	s.logger.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.logger.Fatal("Server failed to start", zap.Error(err))
	}
}
