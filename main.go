package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prd-workspace/config"
	"prd-workspace/handlers"
	"prd-workspace/helper"
	"prd-workspace/logger"
	"prd-workspace/metrics"
	"prd-workspace/repositories"
	"prd-workspace/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger(logger.Config{Level: "info"}).Fatal("failed to load config").Err(err).Send()
	}

	log := logger.NewLogger(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	log.Info("starting prd workspace").
		Str("storage", cfg.Storage.Driver).
		Str("port", cfg.Server.Port).
		Send()

	// Initialize repositories
	var (
		documentRepo repositories.DocumentRepository
		userRepo     repositories.UserRepository
	)
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory storage, data is lost on restart").Send()
		documentRepo = repositories.NewMemoryDocumentRepository()
		userRepo = repositories.NewMemoryUserRepository()
	default:
		if cfg.Database.MigrationsEnabled {
			if err := config.RunMigrations(cfg.Database, log); err != nil {
				log.Fatal("failed to run migrations").Err(err).Send()
			}
		}

		db, err := config.InitDB(cfg.Database, log)
		if err != nil {
			log.Fatal("failed to connect to database").Err(err).Send()
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		documentRepo = repositories.NewDocumentRepository(db)
		userRepo = repositories.NewUserRepository(db)
	}

	m := metrics.NewMetrics()
	httpHelper := helper.NewHTTPHelper()

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg.JWT)
	documentService := services.NewDocumentService(documentRepo, log, m)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, httpHelper)
	documentHandler := handlers.NewDocumentHandler(documentService, httpHelper, m, cfg.Versioning.MaxRetries)

	gin.SetMode(cfg.Server.Mode)
	router := handlers.NewRouter(handlers.RouterConfig{
		Log:             log,
		Metrics:         m,
		JWTSecret:       cfg.JWT.Secret,
		AuthHandler:     authHandler,
		DocumentHandler: documentHandler,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting").Str("addr", srv.Addr).Send()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed").Err(err).Send()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down").Send()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown").Err(err).Send()
	}
}
