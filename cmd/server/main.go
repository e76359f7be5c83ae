package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/api"
	"github.com/andresuchdata/retail-backoffice/internal/config"
	"github.com/andresuchdata/retail-backoffice/internal/planner"
	"github.com/andresuchdata/retail-backoffice/internal/service"
	"github.com/andresuchdata/retail-backoffice/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.Configure(cfg.Server.Mode, cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	b, err := newBackend(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize backend")
	}
	defer b.Close()

	p := planner.New(planner.Options{
		ForecastDays: cfg.Planner.ForecastDays,
		BufferPolicy: planner.ParseBufferPolicy(cfg.Planner.BufferPolicy),
	})

	orders := service.NewOrderService(b.orders, b.notifier, b.settings, b.archive, b.cache)
	services := &api.Services{
		Planner:  service.NewPlannerService(p, b.inventory, b.sales, b.buffers, b.cache),
		Orders:   orders,
		Settings: service.NewSettingsService(b.settings),
		Reports:  service.NewReportService(b.reports),
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewRouter(services, cfg.Server.AllowedOrigins),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().
			Str("port", cfg.Server.Port).
			Str("backend", b.name).
			Int("forecast_days", p.ForecastDays()).
			Str("buffer_policy", string(p.BufferPolicy())).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
	}
	orders.Wait()

	logger.Log.Info().Msg("Server exiting")
}
