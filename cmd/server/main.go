// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"gorm.io/gorm"

	"github.com/javajoker/catalog-admin/internal/config"
	"github.com/javajoker/catalog-admin/internal/database"
	"github.com/javajoker/catalog-admin/internal/i18n"
	"github.com/javajoker/catalog-admin/internal/repository"
	"github.com/javajoker/catalog-admin/internal/router"
	"github.com/javajoker/catalog-admin/internal/services"
)

const (
	envFileFlag = "env-file"
	migrateFlag = "migrate"
	storeFlag   = "store"
)

func main() {
	envFile := pflag.StringP(envFileFlag, "e", "", "path to a .env file (default .env)")
	migrate := pflag.Bool(migrateFlag, true, "run schema migrations at start-up")
	storeKind := pflag.String(storeFlag, "", "catalog store: postgres or memory (overrides CATALOG_STORE)")
	pflag.Parse()

	logrus.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if cfg.Environment != "production" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	if *storeKind != "" {
		cfg.Database.Store = strings.ToLower(*storeKind)
		if err := cfg.Validate(); err != nil {
			logrus.WithError(err).Fatal("Invalid --store")
		}
	}

	// Initialize database. A nil handle keeps the server up and answers every
	// catalog call with backend_unavailable.
	var db *gorm.DB
	if cfg.Database.Store == repository.StoreMemory {
		logrus.Warn("Using the in-memory catalog store; data is lost on exit")
	} else {
		db, err = database.Initialize(cfg.Database)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize database")
		}
	}
	if db != nil {
		defer database.Close(db)
		if *migrate {
			if err := database.RunMigrations(db); err != nil {
				logrus.WithError(err).Fatal("Failed to run migrations")
			}
		}
	}

	store, err := repository.NewStore(cfg.Database.Store, db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to set up catalog store")
	}

	roster, err := services.LoadRoster(cfg.Auth)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load users")
	}

	host, err := services.NewImageHost(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to set up image host")
	}

	svc, err := router.NewServices(store, roster, host, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to set up services")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := router.Initialize(svc, cfg)

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
		logrus.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		logrus.WithError(err).Error("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}
