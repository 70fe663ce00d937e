package server

import (
	"net/http"

	"backend/internal/config"
	"backend/internal/gate"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/registry"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/training"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	router   *gin.Engine
	db       *sqlx.DB
	cfg      *config.Config
	registry *registry.Registry
	gate     *gate.Gate
	pipeline *training.Pipeline
	log      *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, log *zap.Logger, reg *registry.Registry, g *gate.Gate, pipeline *training.Pipeline) *Server {
	router := gin.Default()

	s := &Server{
		router:   router,
		db:       db,
		cfg:      cfg,
		registry: reg,
		gate:     g,
		pipeline: pipeline,
		log:      log,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	authRepo := repository.NewAuthRepository(s.db, s.log)
	spamLogRepo := repository.NewSpamLogRepository(s.db, s.log)
	feedbackRepo := repository.NewFeedbackRepository(s.db, s.log)

	authService := service.NewAuthService(authRepo, s.cfg.Auth.JWTSecret, s.cfg.TokenTTL(), s.log)
	analysisService := service.NewAnalysisService(s.registry, spamLogRepo, s.cfg.Model.DecisionThreshold, s.log)
	feedbackService := service.NewFeedbackService(feedbackRepo, spamLogRepo, s.gate, s.log)

	authHandler := handler.NewAuthHandler(authService, s.log)
	analyzeHandler := handler.NewAnalyzeHandler(analysisService, s.log)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService, s.log)
	retrainHandler := handler.NewRetrainHandler(s.gate, s.pipeline, s.log)
	adminHandler := handler.NewAdminHandler(authRepo, feedbackRepo, analysisService, s.registry, s.log)
	modelInfoHandler := handler.NewModelInfoHandler(s.registry, s.log)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Authentication routes
	authGroup := s.router.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated routes
	authRequired := s.router.Group("/")
	authRequired.Use(middleware.AuthMiddleware(s.cfg.Auth.JWTSecret, s.log))
	{
		authRequired.POST("/analyze", analyzeHandler.Analyze)
		authRequired.GET("/logs", analyzeHandler.Logs)
		authRequired.GET("/logs/stats", analyzeHandler.LogStats)
		authRequired.POST("/feedback", feedbackHandler.Submit)
		authRequired.GET("/retrain/status", retrainHandler.Status)
		authRequired.GET("/model/info", modelInfoHandler.GetInfo)
	}

	// Admin-only routes
	adminRequired := s.router.Group("/")
	adminRequired.Use(middleware.AuthMiddleware(s.cfg.Auth.JWTSecret, s.log), middleware.AdminRequired())
	{
		adminRequired.GET("/admin/feedback", feedbackHandler.List)
		adminRequired.DELETE("/feedback/:id", feedbackHandler.Delete)
		adminRequired.POST("/retrain", retrainHandler.Retrain)
		adminRequired.POST("/retrain/train", retrainHandler.TrainInitial)
		adminRequired.GET("/admin/users", adminHandler.GetUsers)
		adminRequired.DELETE("/admin/users/:id", adminHandler.DeleteUser)
		adminRequired.GET("/admin/stats", adminHandler.GetStats)
		adminRequired.DELETE("/admin/bulk/delete-old-logs", adminHandler.DeleteOldLogs)
	}
}

func (s *Server) Run(addr string) {
	s.log.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.log.Fatal("Server failed to start", zap.Error(err))
	}
}
