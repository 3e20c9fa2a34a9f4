package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/safedesk/safedesk/internal/models"
)

const (
	usersFile   = "users.json"
	reportsFile = "reports.json"
)

// FileStore implements record persistence as one JSON snapshot file per
// collection under a data directory. A missing or unparsable file reads as
// an empty collection. Writes replace the whole snapshot via a temp file
// and rename, so a partial write never corrupts the previous snapshot.
//
// Read-modify-write sequences are not mutually exclusive across concurrent
// requests: two concurrent creates can race and the last write wins. Known
// limitation at the intended scale.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir. The directory is created
// on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// CreateUser appends a new user to the users snapshot. Usernames are checked
// against the full current collection before appending.
func (s *FileStore) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	users := s.readUsers()
	for _, existing := range users {
		if existing.Username == u.Username {
			return models.User{}, models.ErrUsernameTaken
		}
	}

	u.ID = nextID(len(users), func(i int) int64 { return users[i].ID })
	u.CreatedAt = time.Now().UTC()
	users = append(users, u)

	if err := s.writeSnapshot(usersFile, users); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// FindUserByUsername returns the user with the given username, or nil when
// no such user exists.
func (s *FileStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range s.readUsers() {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

// CreateReport appends a new report to the reports snapshot.
func (s *FileStore) CreateReport(ctx context.Context, r models.Report) (models.Report, error) {
	reports := s.readReports()

	r.ID = nextID(len(reports), func(i int) int64 { return reports[i].ID })
	r.CreatedAt = time.Now().UTC()
	reports = append(reports, r)

	if err := s.writeSnapshot(reportsFile, reports); err != nil {
		return models.Report{}, err
	}
	return r, nil
}

// ListReports returns every report, newest first.
func (s *FileStore) ListReports(ctx context.Context) ([]models.Report, error) {
	reports := s.readReports()
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}

// ListUsers returns every user, newest first. Unlike the snapshot on disk,
// the result carries no passwords.
func (s *FileStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users := s.readUsers()
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// Users returns the raw users snapshot, passwords included, in insertion
// order. Used by the migration tool.
func (s *FileStore) Users() []models.User {
	return s.readUsers()
}

// Reports returns the raw reports snapshot in insertion order. Used by the
// migration tool.
func (s *FileStore) Reports() []models.Report {
	return s.readReports()
}

func (s *FileStore) readUsers() []models.User {
	var users []models.User
	s.readSnapshot(usersFile, &users)
	return users
}

func (s *FileStore) readReports() []models.Report {
	var reports []models.Report
	s.readSnapshot(reportsFile, &reports)
	return reports
}

// readSnapshot decodes the named snapshot into v. A missing or corrupt file
// leaves v untouched: the collection reads as empty rather than failing the
// caller.
func (s *FileStore) readSnapshot(name string, v any) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, v)
}

func (s *FileStore) writeSnapshot(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// nextID derives a new identifier from the wall clock, bumped past any
// existing ID so creates within the same millisecond stay distinct.
func nextID(n int, idAt func(int) int64) int64 {
	id := time.Now().UnixMilli()
	for i := 0; i < n; i++ {
		if existing := idAt(i); existing >= id {
			id = existing + 1
		}
	}
	return id
}
