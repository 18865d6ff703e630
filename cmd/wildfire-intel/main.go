package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emberwatch/wildfire-intel/internal/analyzer"
	"github.com/emberwatch/wildfire-intel/internal/api"
	"github.com/emberwatch/wildfire-intel/internal/config"
	"github.com/emberwatch/wildfire-intel/internal/envdata"
	"github.com/emberwatch/wildfire-intel/internal/firms"
	"github.com/emberwatch/wildfire-intel/internal/geocode"
	"github.com/emberwatch/wildfire-intel/internal/logging"
	"github.com/emberwatch/wildfire-intel/internal/observability"
	"github.com/emberwatch/wildfire-intel/internal/predictor"
	"github.com/emberwatch/wildfire-intel/internal/repository"
	"github.com/emberwatch/wildfire-intel/internal/stream"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	broadcaster := stream.NewBroadcaster()

	geocoder := geocode.NewCachedGeocoder(geocode.NewClient(cfg.Geocoder), cfg.Geocoder.CacheTTL)
	fireFetcher := firms.NewFetcher(firms.NewClient(cfg.Firms))
	envFetcher := envdata.NewFetcher(cfg.Weather, geocoder)
	modelClient := predictor.NewClient(cfg.Predictor)
	riskPredictor := predictor.New(modelClient, fireFetcher)

	engine := analyzer.New(cfg.Analysis, fireFetcher, envFetcher, riskPredictor, metrics, analyzer.Options{
		Evaluator:   modelClient,
		History:     db,
		Broadcaster: broadcaster,
	})
	engine.Start(ctx)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(10, 20)) // 10 req/s sustained, burst 20
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := api.NewHandler(engine, modelClient, geocoder, db, broadcaster)
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
	engine.Stop()
	broadcaster.Close() // Close all streams gracefully

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}
