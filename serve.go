package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"medsched/config"
	"medsched/internal/cache"
	"medsched/internal/events"
	"medsched/internal/repository"
	"medsched/internal/service"
	"medsched/internal/storage"
	"medsched/internal/transport/rest"
	"medsched/pkg/auth"
	"medsched/pkg/database"
	"medsched/pkg/logger"
	"medsched/pkg/metrics"
)

func serveCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Start without applying pending migrations")

	return cmd
}

func runServer(ctx context.Context, skipMigrations bool) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(ctx, cfg.Postgres)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return err
	}
	defer db.Close()

	if !skipMigrations {
		applied, err := database.RunMigrations(ctx, db, cfg.Postgres.MigrationsDir, log)
		if err != nil {
			log.Error("failed to apply migrations", zap.Error(err))
			return err
		}
		log.Info("migrations applied", zap.Int("count", applied))
	}

	tokens, err := auth.NewTokenManager(cfg.JWT.SigningKey, cfg.JWT.Issuer)
	if err != nil {
		return fmt.Errorf("failed to init token manager: %w", err)
	}

	// A nil interface, not a typed nil, tells the physician service that uploads are off.
	var fileStorage storage.FileStorage
	if cfg.S3.Endpoint != "" {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3, log)
		if err != nil {
			log.Error("failed to init S3 storage", zap.Error(err))
			return err
		}
		fileStorage = s3Storage
		log.Info("S3 storage ready", zap.String("endpoint", cfg.S3.Endpoint))
	} else {
		log.Warn("S3 storage is not configured, photo uploads are disabled")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		rabbit, err := events.NewRabbitPublisher(cfg.RabbitMQ, log)
		if err != nil {
			log.Error("failed to connect to RabbitMQ", zap.Error(err))
			return err
		}
		publisher = rabbit
	}
	defer publisher.Close()

	collector := metrics.NewCollector(cfg.Name)
	repos := repository.NewRepositories(db)

	services, err := service.NewServices(service.Deps{
		Repos:       repos,
		Directory:   cache.NewDirectory(repos.Physician, repos.Location, cfg.Cache, log),
		Logger:      log,
		Config:      cfg,
		FileStorage: fileStorage,
		Publisher:   publisher,
		Metrics:     collector,
	})
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handler := rest.NewHandler(services, log, cfg, tokens, collector, db)
	handler.InitRoutes(router)

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderMB << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	log.Info("server started", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", zap.Error(err))
		return err
	}

	log.Info("server stopped")
	return nil
}
