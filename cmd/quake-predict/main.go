package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mr1hm/go-quake-magnitude/internal/api"
	"github.com/mr1hm/go-quake-magnitude/internal/config"
	"github.com/mr1hm/go-quake-magnitude/internal/logging"
	"github.com/mr1hm/go-quake-magnitude/internal/modelsource"
	"github.com/mr1hm/go-quake-magnitude/internal/observability"
	"github.com/mr1hm/go-quake-magnitude/internal/prediction"
	"github.com/mr1hm/go-quake-magnitude/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The model is loaded once here and shared read-only by every request.
	src, err := modelsource.Open(ctx, modelsource.Options{
		Path:    cfg.Model.Path,
		URL:     cfg.Model.URL,
		Timeout: cfg.Model.Timeout,
	}, slog.Default())
	if err != nil {
		logging.Fatalf("Failed to load model: %v", err)
	}
	slog.Info("model loaded", "name", src.Name, "version", src.Version, "kind", src.Kind, "source", src.Location)

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	metrics.ModelInfo.WithLabelValues(src.Name, src.Version, src.Kind, src.Location).Set(1)

	opts := []prediction.Option{
		prediction.WithMetrics(metrics),
		prediction.WithModelName(src.Name),
	}

	if cfg.History.Enabled {
		if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
			logging.Fatalf("Failed to create database directory: %v", err)
		}
		db, err := repository.NewSQLiteDB(cfg.DB.Path)
		if err != nil {
			logging.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		opts = append(opts, prediction.WithHistory(db))
		slog.Info("prediction history enabled", "path", cfg.DB.Path)
	}

	svc := prediction.NewService(src.Model, opts...)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimit))

	handler := api.NewHandler(svc, api.ModelInfo{
		Name:    src.Name,
		Version: src.Version,
		Kind:    src.Kind,
		Source:  src.Location,
	}, api.WithHistoryLimit(cfg.History.Limit))
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
