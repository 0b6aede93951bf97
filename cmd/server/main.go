// cmd/server/main.go
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
	"github.com/sirupsen/logrus"

	"github.com/javajoker/gearguard-backend/internal/config"
	"github.com/javajoker/gearguard-backend/internal/database"
	"github.com/javajoker/gearguard-backend/internal/i18n"
	"github.com/javajoker/gearguard-backend/internal/router"
	"github.com/javajoker/gearguard-backend/internal/services"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}
	if err := cfg.Log.ConfigureLogger(); err != nil {
		logrus.Fatal("Failed to configure logging: ", err)
	}

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize i18n
	if err := i18n.Initialize(); err != nil {
		logrus.Fatal("Failed to initialize i18n: ", err)
	}

	// Open the store and prepare its schema
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	s, err := database.Open(ctx, cfg.Database)
	if err != nil {
		cancel()
		logrus.Fatal("Failed to open database: ", err)
	}

	packages, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		cancel()
		logrus.Fatal("Failed to load package catalog: ", err)
	}
	if _, err := database.SeedPackages(ctx, s, packages, false); err != nil {
		cancel()
		logrus.Fatal("Failed to seed package catalog: ", err)
	}
	cancel()

	storage, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.Fatal("Failed to initialize image storage: ", err)
	}
	if cfg.Payment.StripeSecretKey == "" {
		logrus.Warn("STRIPE_SECRET_KEY is not set, checkout requests will fail")
	}
	provider := services.NewStripeProvider(cfg.Payment.StripeSecretKey, cfg.Payment.StripeWebhookSecret)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	svc := router.NewServices(cfg, s, storage, provider)
	svc.UploadDir = storage.LocalDir()
	r, stopLimiters := router.Initialize(cfg, s, svc)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":   srv.Addr,
			"driver": cfg.Database.Driver,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}
	stopLimiters()
	database.Close(shutdownCtx, s)

	logrus.Info("Server exited")
}
