// Package http provides HTTP routing and middleware configuration for the
// record-keeping service.
package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/safedesk/safedesk/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the API.
// It enforces JSON content types on bodied requests, logs every request,
// and mounts the record endpoints under /api.
//
// Routes:
//
//	POST /api/signup   → authHandler.Signup
//	POST /api/login    → authHandler.Login
//	POST /api/reports  → reportHandler.CreateReport
//	GET  /api/reports  → reportHandler.ListReports
//	GET  /api/users    → reportHandler.ListUsers
func NewRouter(
	authHandler *AuthHandler,
	reportHandler *ReportHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)

		r.Post("/reports", reportHandler.CreateReport)
		r.Get("/reports", reportHandler.ListReports)
		r.Get("/users", reportHandler.ListUsers)
	})

	return r
}
