// Command flipcards serves the flashcards API.
//
//	@title			Flipcards Learner API
//	@version		1.0
//	@description	Flashcard CRUD with an object-storage audit trail and image uploads.
//	@BasePath		/api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/hristiyandudev55/flipcards-learner/internal/assets"
	"github.com/hristiyandudev55/flipcards-learner/internal/audit"
	"github.com/hristiyandudev55/flipcards-learner/internal/config"
	httpapi "github.com/hristiyandudev55/flipcards-learner/internal/http"
	"github.com/hristiyandudev55/flipcards-learner/internal/http/handlers"
	"github.com/hristiyandudev55/flipcards-learner/internal/observability"
	"github.com/hristiyandudev55/flipcards-learner/internal/repo"
	"github.com/hristiyandudev55/flipcards-learner/internal/storage"
	"github.com/hristiyandudev55/flipcards-learner/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.ConfigureLogging(cfg.LogLevel, cfg.LogPretty)
	appVersion := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)

	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, appVersion)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}
	if err := repo.Instrument(db); err != nil {
		log.Warn().Err(err).Msg("gorm tracing plugin not installed")
	}

	// Bound every S3 round trip; audit writes carry their own shorter deadline.
	store, err := storage.New(cfg.S3, storage.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}))
	if err != nil {
		log.Fatal().Err(err).Msg("object storage setup failed")
	}

	var auditLog audit.Logger = audit.Nop{}
	var assetSvc handlers.AssetService
	if store != nil {
		assetSvc = assets.NewUploader(store)
		if cfg.Audit.Enabled {
			auditLog = audit.NewS3Logger(store, cfg.Audit.Prefix, cfg.Audit.Timeout)
		}
		log.Info().Str("bucket", store.Bucket()).Bool("audit", cfg.Audit.Enabled).Msg("object storage enabled")
	} else {
		log.Warn().Msg("object storage not configured; audit trail and asset routes disabled")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{DB: db, Audit: auditLog, Assets: assetSvc}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", appVersion).Str("db_driver", cfg.DB.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()
	auditLog.Log(ctx, audit.ActionAppStarted, map[string]any{
		"version":   appVersion,
		"port":      cfg.Port,
		"db_driver": cfg.DB.Driver,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutdown signal received")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	auditLog.Log(sctx, audit.ActionAppStopped, map[string]any{"signal": sig.String()})

	if err := shutdownOTel(sctx); err != nil {
		log.Warn().Err(err).Msg("otel shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped gracefully")
}
