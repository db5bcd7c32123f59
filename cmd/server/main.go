// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/itechlabs/comercial-insights/internal/analysis"
	"github.com/itechlabs/comercial-insights/internal/api"
	"github.com/itechlabs/comercial-insights/internal/api/handlers"
	"github.com/itechlabs/comercial-insights/internal/cache"
	"github.com/itechlabs/comercial-insights/internal/config"
	"github.com/itechlabs/comercial-insights/internal/service"
	"github.com/itechlabs/comercial-insights/internal/storage"
	"github.com/itechlabs/comercial-insights/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Setup(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize report cache (noop unless redis is enabled)
	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("report cache unavailable, continuing without caching")
		reportCache = cache.NewNoopReportCache()
	}

	// Initialize upload archiver (noop unless storage is enabled)
	archiver, err := storage.NewArchiver(cfg.Storage)
	if err != nil {
		log.Warn().Err(err).Msg("upload archiver unavailable, continuing without archival")
		archiver = storage.NewNoopArchiver()
	}

	// Wire engine, service and HTTP layer
	engine := analysis.NewEngine(cfg.Analysis.ReferenceLocation, cfg.Analysis.WindowMonths)
	analysisService := service.NewAnalysisService(engine, reportCache)
	analysisHandler := handlers.NewAnalysisHandler(analysisService, archiver)
	router := api.NewRouter(analysisHandler, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
}
