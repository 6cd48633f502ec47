package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func openTest(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenScheme(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "rooms.db"))
	if err != nil {
		t.Fatalf("Open(sqlite) error: %v", err)
	}
	s.Close()

	if _, err := Open(ctx, "mysql://localhost/rooms"); err == nil {
		t.Error("Open(mysql) should fail")
	}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	u, err := s.CreateUser(ctx, User{ID: "user_1", Email: "a@example.com", PasswordHash: "h", DisplayName: "A"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	_, err = s.CreateUser(ctx, User{ID: "user_2", Email: "a@example.com", PasswordHash: "h", DisplayName: "B"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate email error = %v, want ErrDuplicate", err)
	}

	got, err := s.GetUserByEmail(ctx, "a@example.com")
	if err != nil || got.ID != "user_1" || got.PasswordHash != "h" {
		t.Errorf("GetUserByEmail = %+v, %v", got, err)
	}
	if _, err := s.GetUserByID(ctx, "user_404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUserByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDesignsAndMembers(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	for _, u := range []User{
		{ID: "user_owner", Email: "owner@example.com", PasswordHash: "h", DisplayName: "Owner"},
		{ID: "user_guest", Email: "guest@example.com", PasswordHash: "h", DisplayName: "Guest"},
	} {
		if _, err := s.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
	}

	d, err := s.CreateDesign(ctx, Design{ID: "design_1", Name: "Flat", OwnerID: "user_owner"})
	if err != nil {
		t.Fatalf("CreateDesign: %v", err)
	}
	if err := s.AddMember(ctx, d.ID, "user_owner", RoleOwner); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if err := s.AddMember(ctx, d.ID, "user_owner", RoleOwner); !errors.Is(err, ErrDuplicate) {
		t.Errorf("second AddMember error = %v, want ErrDuplicate", err)
	}
	if err := s.AddMember(ctx, d.ID, "user_guest", RoleEditor); err != nil {
		t.Fatalf("AddMember guest: %v", err)
	}

	m, err := s.GetMember(ctx, d.ID, "user_guest")
	if err != nil || m.Role != RoleEditor || m.Email != "guest@example.com" {
		t.Errorf("GetMember = %+v, %v", m, err)
	}
	members, err := s.ListMembers(ctx, d.ID)
	if err != nil || len(members) != 2 {
		t.Fatalf("ListMembers = %d, %v; want 2", len(members), err)
	}

	list, err := s.ListDesignsForUser(ctx, "user_guest")
	if err != nil || len(list) != 1 || list[0].Name != "Flat" {
		t.Errorf("ListDesignsForUser = %+v, %v", list, err)
	}

	if err := s.RenameDesign(ctx, d.ID, "Loft"); err != nil {
		t.Fatalf("RenameDesign: %v", err)
	}
	if got, _ := s.GetDesign(ctx, d.ID); got.Name != "Loft" {
		t.Errorf("name after rename = %q, want Loft", got.Name)
	}

	if err := s.RemoveMember(ctx, d.ID, "user_guest"); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if _, err := s.GetMember(ctx, d.ID, "user_guest"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetMember after remove error = %v, want ErrNotFound", err)
	}

	if err := s.DeleteDesign(ctx, d.ID); err != nil {
		t.Fatalf("DeleteDesign: %v", err)
	}
	if err := s.DeleteDesign(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteDesign error = %v, want ErrNotFound", err)
	}
	if _, err := s.ListMembers(ctx, d.ID); err != nil {
		t.Errorf("ListMembers after delete: %v", err)
	}
}

func TestSnapshotsVersioning(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	if _, err := s.CreateUser(ctx, User{ID: "user_1", Email: "a@example.com", PasswordHash: "h", DisplayName: "A"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateDesign(ctx, Design{ID: "design_1", Name: "Flat", OwnerID: "user_1"}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetLatestSnapshot(ctx, "design_1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetLatestSnapshot(empty) error = %v, want ErrNotFound", err)
	}

	docs := []string{`{"walls":[]}`, `{"walls":[{"id":"wall_a"}]}`}
	for i, doc := range docs {
		snap, err := s.SaveSnapshot(ctx, "snap_"+string(rune('a'+i)), "design_1", []byte(doc))
		if err != nil {
			t.Fatalf("SaveSnapshot %d: %v", i, err)
		}
		if snap.Version != i+1 {
			t.Errorf("version = %d, want %d", snap.Version, i+1)
		}
	}

	latest, err := s.GetLatestSnapshot(ctx, "design_1")
	if err != nil {
		t.Fatalf("GetLatestSnapshot: %v", err)
	}
	if latest.Version != 2 || string(latest.Document) != docs[1] {
		t.Errorf("latest = v%d %s, want v2 %s", latest.Version, latest.Document, docs[1])
	}

	if _, err := s.SaveSnapshot(ctx, "snap_x", "design_missing", []byte(`{}`)); !errors.Is(err, ErrNotFound) {
		t.Errorf("SaveSnapshot(missing design) error = %v, want ErrNotFound", err)
	}
}

func TestConcurrentSnapshots(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"sqlite": func(t *testing.T) Store { return openTest(t) },
		"postgres": func(t *testing.T) Store {
			url := os.Getenv("ROOMCRAFT_TEST_POSTGRES")
			if url == "" {
				t.Skip("ROOMCRAFT_TEST_POSTGRES not set")
			}
			p, err := OpenPostgres(context.Background(), url)
			if err != nil {
				t.Fatalf("OpenPostgres: %v", err)
			}
			t.Cleanup(func() { p.Close() })
			return p
		},
	}
	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			suffix := uuid.NewString()[:8]
			userID, designID := "user_"+suffix, "design_"+suffix
			if _, err := s.CreateUser(ctx, User{ID: userID, Email: suffix + "@example.com", PasswordHash: "h", DisplayName: "A"}); err != nil {
				t.Fatal(err)
			}
			if _, err := s.CreateDesign(ctx, Design{ID: designID, Name: "Flat", OwnerID: userID}); err != nil {
				t.Fatal(err)
			}

			const saves = 8
			var (
				wg       sync.WaitGroup
				mu       sync.Mutex
				versions []int
				errs     []error
			)
			for i := 0; i < saves; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					snap, err := s.SaveSnapshot(ctx, "snap_"+uuid.NewString(), designID, []byte(`{"walls":[]}`))
					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						errs = append(errs, err)
						return
					}
					versions = append(versions, snap.Version)
				}()
			}
			wg.Wait()

			if len(errs) > 0 {
				t.Fatalf("concurrent saves failed: %v", errs)
			}
			sort.Ints(versions)
			for i, v := range versions {
				if v != i+1 {
					t.Fatalf("versions = %v, want 1..%d", versions, saves)
				}
			}
		})
	}
}
