// Package http provides HTTP handlers for incident reports and user listings.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/safedesk/safedesk/internal/models"
)

// RecordService defines the interface for report and listing operations
// required by the ReportHandler.
type RecordService interface {
	// CreateReport persists a new incident report.
	CreateReport(ctx context.Context, r models.Report) (models.Report, error)
	// ListReports returns every report, newest first.
	ListReports(ctx context.Context) ([]models.Report, error)
	// ListUsers returns every user, newest first, without passwords.
	ListUsers(ctx context.Context) ([]models.User, error)
}

// ReportHandler handles HTTP requests for reports and user listings.
type ReportHandler struct {
	// RecordService performs the underlying record operations.
	RecordService RecordService
}

// ReportRequest represents the JSON payload for filing a report. Name and
// grade are optional.
type ReportRequest struct {
	Name        string `json:"name"`
	Grade       string `json:"grade"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// CreateReport handles POST /api/reports. Type, description and a valid
// YYYY-MM-DD date are required; name defaults to "Anonymous" downstream.
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Type == "" || req.Description == "" || req.Date == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	report, err := h.RecordService.CreateReport(r.Context(), models.Report{
		Name:        req.Name,
		Grade:       req.Grade,
		Type:        req.Type,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(report)
}

// ListReports handles GET /api/reports.
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.RecordService.ListReports(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reports)
}

// ListUsers handles GET /api/users.
func (h *ReportHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.RecordService.ListUsers(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(users)
}
