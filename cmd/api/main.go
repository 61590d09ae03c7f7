package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fiscalia/fiscalia-api/internal/application"
	appanalysis "github.com/fiscalia/fiscalia-api/internal/application/analysis"
	appreminders "github.com/fiscalia/fiscalia-api/internal/application/reminders"
	"github.com/fiscalia/fiscalia-api/internal/config"
	domanalysis "github.com/fiscalia/fiscalia-api/internal/domain/analysis"
	"github.com/fiscalia/fiscalia-api/internal/domain/identity"
	"github.com/fiscalia/fiscalia-api/internal/infra/ai/groq"
	"github.com/fiscalia/fiscalia-api/internal/infra/authn"
	mysqldb "github.com/fiscalia/fiscalia-api/internal/infra/db/mysql"
	postgresdb "github.com/fiscalia/fiscalia-api/internal/infra/db/postgres"
	"github.com/fiscalia/fiscalia-api/internal/infra/httpserver"
	"github.com/fiscalia/fiscalia-api/internal/infra/reminderfile"
	minioStore "github.com/fiscalia/fiscalia-api/internal/infra/storage"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatal("config load error", zap.Error(err))
	}

	ctx := context.Background()

	// connect database (driver-selected)
	var (
		db   *sql.DB
		repo domanalysis.Repository
	)
	switch cfg.Database.Driver {
	case "mysql":
		db, err = mysqldb.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			logger.Fatal("mysql connect error", zap.Error(err))
		}
		repo = mysqldb.NewAnalysisRepository(db)
	default:
		db, err = postgresdb.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			logger.Fatal("postgres connect error", zap.Error(err))
		}
		repo = postgresdb.NewAnalysisRepository(db)
	}
	defer db.Close()

	// completion client; disabled without an API key, analysis then runs in
	// fallback mode
	ai := groq.NewClient(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.Groq.Model)
	if !ai.Enabled() {
		logger.Warn("GROQ_API_KEY not configured, analyses run in fallback mode")
	}

	// optional artifact archive
	var artifacts domanalysis.ArtifactStore
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logger.Fatal("minio init error", zap.Error(err))
		}
		artifacts = store
	}

	// identity resolution
	var resolver identity.Resolver
	if cfg.Auth.Mode == "verify" {
		resolver = authn.NewHTTPResolver(cfg.Auth.ProviderURL, cfg.Auth.AnonKey)
	} else {
		logger.Warn("auth.mode=static: using fixed development identity")
		resolver = authn.NewStaticResolver()
	}

	clock := application.SystemClock{}
	analyses := appanalysis.NewService(repo, ai, artifacts, clock, logger)
	reminders := appreminders.NewService(reminderfile.New(cfg.Reminders.File), clock)

	handler := httpserver.New(analyses, reminders, resolver, logger, cfg.Server.AllowedOrigin, httpserver.Status{
		Database: db != nil,
		Groq:     ai.Enabled(),
		Storage:  artifacts != nil,
		AuthMode: cfg.Auth.Mode,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
