// Package service routes record operations between the remote backend and
// the local file store. Once the remote backend proves unprovisioned the
// router demotes itself and serves from the local store for the rest of the
// process lifetime.
package service

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/safedesk/safedesk/internal/models"
	"github.com/safedesk/safedesk/internal/repository"
)

// Store defines the persistence operations the router dispatches. Both the
// Postgres store and the file store implement it.
type Store interface {
	// CreateUser persists a new user and returns it with identity and
	// creation timestamp assigned.
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	// FindUserByUsername returns the user with the given username, or nil
	// when absent.
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	// CreateReport persists a new report and returns it with identity and
	// creation timestamp assigned.
	CreateReport(ctx context.Context, r models.Report) (models.Report, error)
	// ListReports returns every report, newest first.
	ListReports(ctx context.Context) ([]models.Report, error)
	// ListUsers returns every user, newest first, without passwords.
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Service dispatches each operation to the remote store while it is
// available and to the local store after demotion. Demotion is one-way:
// the remoteUp flag only ever transitions true→false, and the idempotent
// write makes a race between concurrent demotions harmless.
type Service struct {
	remote Store
	local  Store
	log    *zap.Logger

	remoteUp atomic.Bool
}

// New constructs the router. remoteConfigured reflects configuration
// presence at startup: when false (or remote is nil) every operation goes
// straight to the local store and remote is never invoked.
func New(remote, local Store, remoteConfigured bool, log *zap.Logger) *Service {
	s := &Service{remote: remote, local: local, log: log}
	s.remoteUp.Store(remoteConfigured && remote != nil)
	return s
}

// RemoteActive reports whether operations still route to the remote backend.
func (s *Service) RemoteActive() bool {
	return s.remoteUp.Load()
}

// failedOver reports whether err signals an unprovisioned remote backend,
// demoting the router as a side effect. Transient errors leave the flag
// untouched.
func (s *Service) failedOver(err error) bool {
	if err == nil || !errors.Is(err, repository.ErrBackendGone) {
		return false
	}
	s.remoteUp.Store(false)
	s.log.Warn("remote backend demoted, serving from local storage", zap.Error(err))
	return true
}

// Signup creates a new account. The uniqueness check runs against whichever
// store is authoritative at check time; if demotion happens between the
// check and the create, the local store's own scan re-checks implicitly.
func (s *Service) Signup(ctx context.Context, u models.User) (models.User, error) {
	existing, err := s.findUser(ctx, u.Username)
	if err != nil {
		return models.User{}, err
	}
	if existing != nil {
		return models.User{}, models.ErrUsernameTaken
	}
	return s.createUser(ctx, u)
}

// Login checks the request against the authoritative store's record for the
// username. A found record with mismatched credentials is a rejection, never
// a fallback trigger. The returned user carries no password.
func (s *Service) Login(ctx context.Context, username, password, accountType string) (models.User, error) {
	u, err := s.findUser(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if u == nil || u.Password != password || u.AccountType != accountType {
		return models.User{}, models.ErrInvalidCredentials
	}
	out := *u
	out.Password = ""
	return out, nil
}

// CreateReport persists an incident report, defaulting the reporter name to
// "Anonymous" when absent.
func (s *Service) CreateReport(ctx context.Context, r models.Report) (models.Report, error) {
	if r.Name == "" {
		r.Name = models.AnonymousName
	}
	if !s.remoteUp.Load() {
		return s.local.CreateReport(ctx, r)
	}
	created, err := s.remote.CreateReport(ctx, r)
	if s.failedOver(err) {
		return s.local.CreateReport(ctx, r)
	}
	return created, err
}

// ListReports returns every report, newest first, with the incident date
// exposed under the single caller-facing date field regardless of backend.
func (s *Service) ListReports(ctx context.Context) ([]models.Report, error) {
	if !s.remoteUp.Load() {
		return s.local.ListReports(ctx)
	}
	reports, err := s.remote.ListReports(ctx)
	if s.failedOver(err) {
		return s.local.ListReports(ctx)
	}
	return reports, err
}

// ListUsers returns every user, newest first. Passwords are blanked here as
// well, so no backend's projection choices can leak them.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.listUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func (s *Service) findUser(ctx context.Context, username string) (*models.User, error) {
	if !s.remoteUp.Load() {
		return s.local.FindUserByUsername(ctx, username)
	}
	u, err := s.remote.FindUserByUsername(ctx, username)
	if s.failedOver(err) {
		return s.local.FindUserByUsername(ctx, username)
	}
	return u, err
}

func (s *Service) createUser(ctx context.Context, u models.User) (models.User, error) {
	if !s.remoteUp.Load() {
		return s.local.CreateUser(ctx, u)
	}
	created, err := s.remote.CreateUser(ctx, u)
	if s.failedOver(err) {
		return s.local.CreateUser(ctx, u)
	}
	return created, err
}

func (s *Service) listUsers(ctx context.Context) ([]models.User, error) {
	if !s.remoteUp.Load() {
		return s.local.ListUsers(ctx)
	}
	users, err := s.remote.ListUsers(ctx)
	if s.failedOver(err) {
		return s.local.ListUsers(ctx)
	}
	return users, err
}
