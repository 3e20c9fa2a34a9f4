package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/safedesk/safedesk/internal/models"
)

func TestFileStore_EmptyWhenAbsent(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nonexistent"))

	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected no users, got %d", len(users))
	}

	reports, err := store.ListReports(context.Background())
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("expected no reports, got %d", len(reports))
	}

	user, err := store.FindUserByUsername(context.Background(), "anyone")
	if err != nil {
		t.Fatalf("FindUserByUsername failed: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user, got %+v", user)
	}
}

func TestFileStore_UserRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	created, err := store.CreateUser(context.Background(), models.User{
		FullName:    "Alice Smith",
		Username:    "alice",
		Email:       "alice@example.com",
		AccountType: "Student",
		Password:    "pw",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected assigned ID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected assigned CreatedAt")
	}

	// A fresh store over the same directory must see the persisted record.
	reread := NewFileStore(dir)
	found, err := reread.FindUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindUserByUsername failed: %v", err)
	}
	if found == nil {
		t.Fatal("expected persisted user, got nil")
	}
	if found.Password != "pw" {
		t.Errorf("Password = %q; want %q", found.Password, "pw")
	}
	if found.ID != created.ID {
		t.Errorf("ID = %d; want %d", found.ID, created.ID)
	}
}

func TestFileStore_DuplicateUsername(t *testing.T) {
	store := NewFileStore(t.TempDir())

	if _, err := store.CreateUser(context.Background(), models.User{Username: "alice"}); err != nil {
		t.Fatalf("first CreateUser failed: %v", err)
	}
	_, err := store.CreateUser(context.Background(), models.User{Username: "alice"})
	if err != models.ErrUsernameTaken {
		t.Fatalf("second CreateUser error = %v; want ErrUsernameTaken", err)
	}
}

func TestFileStore_DistinctIDs(t *testing.T) {
	store := NewFileStore(t.TempDir())

	first, err := store.CreateReport(context.Background(), models.Report{Type: "bullying", Description: "a", Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}
	second, err := store.CreateReport(context.Background(), models.Report{Type: "theft", Description: "b", Date: "2024-01-02"})
	if err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}
	if first.ID == second.ID {
		t.Errorf("both reports got ID %d", first.ID)
	}
	if second.ID < first.ID {
		t.Errorf("IDs not increasing: %d then %d", first.ID, second.ID)
	}
}

func TestFileStore_CorruptSnapshotReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "reports.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seeding corrupt file: %v", err)
	}
	store := NewFileStore(dir)

	reports, err := store.ListReports(context.Background())
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("expected empty collection from corrupt snapshot, got %d", len(reports))
	}

	// Creating after corruption replaces the snapshot cleanly.
	if _, err := store.CreateReport(context.Background(), models.Report{Type: "t", Description: "d", Date: "2024-01-01"}); err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}
	reports, _ = store.ListReports(context.Background())
	if len(reports) != 1 {
		t.Errorf("expected 1 report after rewrite, got %d", len(reports))
	}
}

func TestFileStore_NoTempLitter(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	for i := 0; i < 3; i++ {
		if _, err := store.CreateReport(context.Background(), models.Report{Type: "t", Description: "d", Date: "2024-01-01"}); err != nil {
			t.Fatalf("CreateReport failed: %v", err)
		}
	}

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp-*"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestFileStore_ListUsersOmitsPasswords(t *testing.T) {
	store := NewFileStore(t.TempDir())

	if _, err := store.CreateUser(context.Background(), models.User{Username: "alice", Password: "pw"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("len(users) = %d; want 1", len(users))
	}
	if users[0].Password != "" {
		t.Errorf("ListUsers leaked password %q", users[0].Password)
	}

	// The raw snapshot used by the migration tool still carries it.
	raw := store.Users()
	if len(raw) != 1 || raw[0].Password != "pw" {
		t.Errorf("Users() = %+v; want password preserved", raw)
	}
}

func TestFileStore_ReportsNewestFirst(t *testing.T) {
	store := NewFileStore(t.TempDir())

	for _, typ := range []string{"first", "second", "third"} {
		if _, err := store.CreateReport(context.Background(), models.Report{Type: typ, Description: "d", Date: "2024-01-01"}); err != nil {
			t.Fatalf("CreateReport failed: %v", err)
		}
	}

	reports, err := store.ListReports(context.Background())
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("len(reports) = %d; want 3", len(reports))
	}
	for i := 1; i < len(reports); i++ {
		if reports[i].CreatedAt.After(reports[i-1].CreatedAt) {
			t.Errorf("reports not newest first at index %d", i)
		}
	}
}
