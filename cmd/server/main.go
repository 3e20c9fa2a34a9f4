// Package main initializes and starts the record-keeping HTTP server,
// wiring configuration, logging, both persistence backends, and the
// failover service.
package main

import (
	"cmp"
	"fmt"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/safedesk/safedesk/internal/config"
	"github.com/safedesk/safedesk/internal/db"
	"github.com/safedesk/safedesk/internal/logger"
	"github.com/safedesk/safedesk/internal/repository"
	"github.com/safedesk/safedesk/internal/server/handler/http"
	"github.com/safedesk/safedesk/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// The hosted backend is considered configured exactly when a DSN is
	// present. A failed ping at boot is logged but does not demote: only
	// per-call classification of structural errors does that.
	var remote service.Store
	remoteConfigured := false
	if options.DatabaseDSN == "" {
		zapLogger.Info("no database configured, serving from local storage")
	} else {
		pg, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			zapLogger.Warn("database not reachable at startup", zap.Error(err))
		}
		if pg != nil {
			remote = repository.NewPostgresStore(pg)
			remoteConfigured = true
		}
	}

	// Local snapshots back every operation once the remote store is gone.
	local := repository.NewFileStore(options.DataDir)

	// The failover router presents one storage contract over both backends.
	svc := service.New(remote, local, remoteConfigured, zapLogger)

	// Create HTTP handlers for auth and record endpoints.
	authHandler := &http.AuthHandler{AuthService: svc}
	reportHandler := &http.ReportHandler{RecordService: svc}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, reportHandler, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Address,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server",
		zap.String("addr", options.Address),
		zap.Bool("remote", remoteConfigured),
	)
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
