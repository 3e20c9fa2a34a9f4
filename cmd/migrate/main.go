// Package main copies the local JSON snapshots into the hosted backend.
// It is a one-shot tool for deployments that ran on local storage and later
// gained a provisioned database; it never deletes the local files.
package main

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/safedesk/safedesk/internal/config"
	"github.com/safedesk/safedesk/internal/db"
	"github.com/safedesk/safedesk/internal/logger"
	"github.com/safedesk/safedesk/internal/repository"
)

// uniqueViolation is the SQLSTATE raised when a snapshot user already
// exists remotely; such records are skipped, not treated as failures.
const uniqueViolation = "23505"

func main() {
	options := config.Parse()

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if options.DatabaseDSN == "" {
		zapLogger.Fatal("DATABASE_URI is required for migration")
	}

	pg, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot reach database", zap.Error(err))
	}
	if err := db.EnsureSchema(pg); err != nil {
		zapLogger.Fatal("cannot create schema", zap.Error(err))
	}

	local := repository.NewFileStore(options.DataDir)
	remote := repository.NewPostgresStore(pg)
	ctx := context.Background()

	users := local.Users()
	migrated, skipped := 0, 0
	for _, u := range users {
		if _, err := remote.CreateUser(ctx, u); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
				skipped++
				continue
			}
			zapLogger.Fatal("migrating user failed", zap.String("username", u.Username), zap.Error(err))
		}
		migrated++
	}
	zapLogger.Info("users migrated", zap.Int("migrated", migrated), zap.Int("skipped", skipped))

	reports := local.Reports()
	for _, r := range reports {
		if _, err := remote.CreateReport(ctx, r); err != nil {
			zapLogger.Fatal("migrating report failed", zap.Int64("id", r.ID), zap.Error(err))
		}
	}
	zapLogger.Info("reports migrated", zap.Int("migrated", len(reports)))
}
