// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/zksub/zksub-backend/internal/config"
	"github.com/zksub/zksub-backend/internal/database"
	"github.com/zksub/zksub-backend/internal/intmax"
	"github.com/zksub/zksub-backend/internal/router"
	"github.com/zksub/zksub-backend/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Configure logging
	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize stores
	var contentStore store.ContentStore
	var ledger store.SubscriptionLedger

	switch cfg.Storage.Driver {
	case "postgres":
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize database")
		}
		defer database.Close(db)

		if err := database.RunMigrations(db); err != nil {
			logrus.WithError(err).Fatal("Failed to run migrations")
		}

		dbStore := store.NewDBStore(db)
		contentStore = dbStore
		ledger = dbStore

	default:
		fileStore, err := store.NewFileStore(cfg.Storage.ContentsFile)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to open contents file")
		}
		contentStore = fileStore
		// Grants are memory-only under the file driver; they do not
		// survive a restart.
		ledger = store.NewMemoryLedger()
	}

	// Payment network client
	client := intmax.NewHTTPClient(cfg.IntMax)

	// Initialize router
	r, err := router.Initialize(cfg, contentStore, ledger, client)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize router")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}
