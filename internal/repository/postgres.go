// Package repository provides the two persistence backends for records:
// a hosted PostgreSQL store and a local JSON snapshot store.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/safedesk/safedesk/internal/models"
)

// ErrBackendGone marks errors that mean the hosted backend is not
// provisioned for this service, as opposed to momentarily failing.
// Callers test for it with errors.Is.
var ErrBackendGone = errors.New("remote backend not provisioned")

// SQLSTATE codes that indicate a structurally unavailable backend:
// undefined_table, and insufficient_privilege (the row-level security
// rejection a hosted backend raises when policies deny the service role).
const (
	codeUndefinedTable        = "42P01"
	codeInsufficientPrivilege = "42501"
)

// classify wraps structural-unavailability errors with ErrBackendGone.
// Every other error passes through unchanged and is treated as transient.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeUndefinedTable, codeInsufficientPrivilege:
			return fmt.Errorf("%w: %v", ErrBackendGone, err)
		}
	}
	return err
}

// PostgresStore implements record persistence against the hosted PostgreSQL
// backend. It owns the translation between caller field names and column
// names (fullName↔full_name, date↔incident_date).
type PostgresStore struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresStore creates a new PostgresStore with the given database connection.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// CreateUser inserts a new user and returns it with the backend-assigned
// ID and creation timestamp filled in.
func (s *PostgresStore) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	err := s.DB.QueryRowContext(
		ctx,
		`INSERT INTO users (full_name, username, email, account_type, password)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		u.FullName, u.Username, u.Email, u.AccountType, u.Password,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return models.User{}, classify(fmt.Errorf("create user: %w", err))
	}
	return u, nil
}

// FindUserByUsername returns the user with the given username, or nil when
// no such user exists.
func (s *PostgresStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT id, full_name, username, email, account_type, password, created_at
		   FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.FullName, &u.Username, &u.Email, &u.AccountType, &u.Password, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(fmt.Errorf("find user: %w", err))
	}
	return &u, nil
}

// CreateReport inserts a new report and returns it with the backend-assigned
// ID and creation timestamp filled in.
func (s *PostgresStore) CreateReport(ctx context.Context, r models.Report) (models.Report, error) {
	err := s.DB.QueryRowContext(
		ctx,
		`INSERT INTO reports (name, grade, type, description, incident_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		r.Name, r.Grade, r.Type, r.Description, r.Date,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return models.Report{}, classify(fmt.Errorf("create report: %w", err))
	}
	return r, nil
}

// ListReports returns every report, newest first. The incident_date column
// is projected into the caller-facing Date field.
func (s *PostgresStore) ListReports(ctx context.Context) ([]models.Report, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, grade, type, description, incident_date, created_at
		  FROM reports ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, classify(fmt.Errorf("list reports: %w", err))
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var r models.Report
		var incidentDate time.Time
		if err := rows.Scan(&r.ID, &r.Name, &r.Grade, &r.Type, &r.Description, &incidentDate, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		r.Date = incidentDate.Format(models.DateLayout)
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("list reports: %w", err))
	}
	return reports, nil
}

// ListUsers returns every user, newest first. The password column is
// excluded from the projection.
func (s *PostgresStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, full_name, username, email, account_type, created_at
		  FROM users ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, classify(fmt.Errorf("list users: %w", err))
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FullName, &u.Username, &u.Email, &u.AccountType, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("list users: %w", err))
	}
	return users, nil
}
