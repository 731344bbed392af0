package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agendamento/config"
	"agendamento/database"
	"agendamento/database/repository"
	"agendamento/handlers"
	"agendamento/middleware"
	"agendamento/routes"
	"agendamento/services/availability"
	"agendamento/services/booking"
	"agendamento/services/sheets"
	"agendamento/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitLockCache()

	repo, err := repository.NewFromConfig()
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := repo.EnsureSchema(bootCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to prepare schema: %v", err)
	}

	mirror, err := sheets.NewFromConfig(bootCtx, cfg, repo)
	if err != nil {
		logger.Sugar().Warnf("main: google sheets mirror disabled: %v", err)
		mirror = nil
	}
	// Restore finishes before the listener opens.
	mirror.RestoreOnStartup(bootCtx, cfg.SheetsAlwaysRestore)
	cancelBoot()

	loc := cfg.Location()
	bookingService := &booking.DefaultBookingService{
		Repo:        repo,
		Resolver:    availability.NewResolver(loc),
		Locker:      booking.NewLocker(utils.GetLockClient()),
		Mirror:      mirror,
		Logger:      logger,
		Pin:         cfg.CDLPin,
		EnforceSlot: cfg.EnforceSlot,
	}

	probes := map[string]utils.Probe{
		"database":      repo.Ping,
		"google_sheets": mirror.Ping,
		"redis": func(ctx context.Context) error {
			client := utils.GetLockClient()
			if client == nil {
				return utils.ErrCheckDisabled
			}
			return client.Ping(ctx).Err()
		},
	}
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, probes, time.Minute)

	bookingHandler := handlers.NewBookingHandler(bookingService)
	adminHandler := handlers.NewAdminHandler(bookingService, mirror, probes)
	handlerBundle := handlers.NewHandlerBundle(bookingHandler, adminHandler, cfg.AdminSyncKey, cfg.StaticDir)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "3000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	mirror.Wait()

	logger.Sugar().Info("main: server stopped gracefully")
}
