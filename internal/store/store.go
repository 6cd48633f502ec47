// Package store persists users, designs, design membership and document
// snapshots. Postgres is the production backend; SQLite serves local
// development and the CLI.
package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

//go:embed migrations/*.sql
var migrations embed.FS

type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
}

type Design struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Member struct {
	DesignID    string
	UserID      string
	Role        Role
	DisplayName string
	Email       string
}

// Snapshot is one saved version of a design document.
type Snapshot struct {
	ID        string
	DesignID  string
	Version   int
	Document  []byte
	CreatedAt time.Time
}

// Store is implemented by the Postgres and SQLite backends. Lookups of a
// missing row return ErrNotFound; unique violations return ErrDuplicate.
type Store interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)

	CreateDesign(ctx context.Context, d Design) (Design, error)
	GetDesign(ctx context.Context, id string) (Design, error)
	ListDesignsForUser(ctx context.Context, userID string) ([]Design, error)
	RenameDesign(ctx context.Context, id, name string) error
	DeleteDesign(ctx context.Context, id string) error

	AddMember(ctx context.Context, designID, userID string, role Role) error
	GetMember(ctx context.Context, designID, userID string) (Member, error)
	ListMembers(ctx context.Context, designID string) ([]Member, error)
	RemoveMember(ctx context.Context, designID, userID string) error

	// SaveSnapshot stores doc as the next version of the design and bumps
	// the design's updated_at.
	SaveSnapshot(ctx context.Context, id, designID string, doc []byte) (Snapshot, error)
	GetLatestSnapshot(ctx context.Context, designID string) (Snapshot, error)

	Close() error
}

// Open picks the backend from the URL scheme: postgres:// or postgresql://
// for Postgres, sqlite://path for SQLite.
func Open(ctx context.Context, url string) (Store, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return OpenPostgres(ctx, url)
	case strings.HasPrefix(url, "sqlite://"):
		return OpenSQLite(ctx, strings.TrimPrefix(url, "sqlite://"))
	default:
		return nil, fmt.Errorf("unsupported database url %q", url)
	}
}

func migration(name string) (string, error) {
	data, err := migrations.ReadFile("migrations/" + name)
	if err != nil {
		return "", fmt.Errorf("read migration: %w", err)
	}
	return string(data), nil
}
