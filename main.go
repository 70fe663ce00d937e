package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"backend/internal/config"
	"backend/internal/gate"
	"backend/internal/notifier"
	"backend/internal/registry"
	"backend/internal/repository"
	"backend/internal/server"
	"backend/internal/service"
	"backend/internal/training"
	"backend/internal/watcher"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Initialize repositories
	authRepo := repository.NewAuthRepository(db, logger)
	feedbackRepo := repository.NewFeedbackRepository(db, logger)
	modelRepo := repository.NewModelVersionRepository(db, logger)

	// Bootstrap admin user if configured
	authService := service.NewAuthService(authRepo, cfg.Auth.JWTSecret, cfg.TokenTTL(), logger)
	if err := authService.EnsureAdmin(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		logger.Fatal("Failed to ensure admin user", zap.Error(err))
	}

	// Load the active model, if any
	reg := registry.New(modelRepo, logger)
	if err := reg.Load(); err != nil {
		logger.Fatal("Failed to load active model", zap.Error(err))
	}

	// Rebuild the retrain gate counter from persisted feedback
	g := gate.New(cfg.Retrain.MinFeedbackCount)
	watermark, err := modelRepo.GetWatermark()
	if err != nil {
		logger.Fatal("Failed to read feedback watermark", zap.Error(err))
	}
	count, err := feedbackRepo.CountMisclassifiedSince(watermark)
	if err != nil {
		logger.Fatal("Failed to count pending feedback", zap.Error(err))
	}
	g.Seed(count)
	logger.Info("Retrain gate initialized",
		zap.Int("pending_misclassifications", count),
		zap.Int("min_required", cfg.Retrain.MinFeedbackCount))

	// Initialize Telegram notifier (optional)
	var trainingNotifier training.Notifier
	if cfg.Notifier.Enabled {
		tg, err := notifier.NewTelegram(cfg.Notifier.TelegramBotToken, cfg.Notifier.TelegramChatID, logger)
		if err != nil {
			logger.Warn("Failed to initialize Telegram notifier, continuing without it", zap.Error(err))
		} else {
			trainingNotifier = tg
			logger.Info("Telegram notifier enabled for retrain outcomes")
		}
	}

	// Initialize training pipeline
	pipeline := training.NewPipeline(
		training.Config{
			ModelDir:           cfg.Model.Dir,
			BaseCorpusPath:     cfg.Model.BaseCorpusPath,
			MaxFeatures:        cfg.Model.MaxFeatures,
			DecisionThreshold:  cfg.Model.DecisionThreshold,
			TestFraction:       cfg.Retrain.TestFraction,
			MinTrainingSamples: cfg.Retrain.MinTrainingSamples,
			AllowedRegression:  cfg.Retrain.AllowedRegression,
		},
		g, reg, feedbackRepo, modelRepo, trainingNotifier, logger,
	)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run automatic retrain watcher in a goroutine (if enabled)
	if cfg.Retrain.AutoRetrain {
		w := watcher.New(g, pipeline, time.Duration(cfg.Retrain.PollIntervalSec)*time.Second, logger)
		go w.Run(ctx)
	}

	// Initialize and run the server
	srv := server.NewServer(db, cfg, logger, reg, g, pipeline)
	srv.Run(cfg.Server.Port)

	<-ctx.Done()
	logger.Info("Application stopped.")
}
