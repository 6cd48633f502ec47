package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ncruces/go-sqlite3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// SQLite keeps timestamps as RFC 3339 text in UTC.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at path and
// applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	schema, err := migration("sqlite.sql")
	if err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migration: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// timeLayout has a fixed-width fraction so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func now() string {
	return time.Now().UTC().Format(timeLayout)
}

func parseTime(v string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, v)
	return t
}

func (s *SQLite) CreateUser(ctx context.Context, u User) (User, error) {
	ts := now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password, display_name, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.DisplayName, ts)
	if err != nil {
		return User{}, sqliteError(err)
	}
	u.CreatedAt = parseTime(ts)
	return u, nil
}

func (s *SQLite) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.getUser(ctx, `SELECT id, email, password, display_name, created_at FROM users WHERE email = ?`, email)
}

func (s *SQLite) GetUserByID(ctx context.Context, id string) (User, error) {
	return s.getUser(ctx, `SELECT id, email, password, display_name, created_at FROM users WHERE id = ?`, id)
}

func (s *SQLite) getUser(ctx context.Context, query, arg string) (User, error) {
	var u User
	var created string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &created)
	if err != nil {
		return User{}, sqliteError(err)
	}
	u.CreatedAt = parseTime(created)
	return u, nil
}

func (s *SQLite) CreateDesign(ctx context.Context, d Design) (Design, error) {
	ts := now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO designs (id, name, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.OwnerID, ts, ts)
	if err != nil {
		return Design{}, sqliteError(err)
	}
	d.CreatedAt, d.UpdatedAt = parseTime(ts), parseTime(ts)
	return d, nil
}

func scanDesign(row interface{ Scan(...any) error }) (Design, error) {
	var d Design
	var created, updated string
	if err := row.Scan(&d.ID, &d.Name, &d.OwnerID, &created, &updated); err != nil {
		return Design{}, err
	}
	d.CreatedAt, d.UpdatedAt = parseTime(created), parseTime(updated)
	return d, nil
}

func (s *SQLite) GetDesign(ctx context.Context, id string) (Design, error) {
	d, err := scanDesign(s.db.QueryRowContext(ctx, `
		SELECT id, name, owner_id, created_at, updated_at
		FROM designs WHERE id = ?`, id))
	if err != nil {
		return Design{}, sqliteError(err)
	}
	return d, nil
}

func (s *SQLite) ListDesignsForUser(ctx context.Context, userID string) ([]Design, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.name, d.owner_id, d.created_at, d.updated_at
		FROM designs d
		JOIN design_members m ON m.design_id = d.id
		WHERE m.user_id = ?
		ORDER BY d.updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	designs := []Design{}
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan design: %w", err)
		}
		designs = append(designs, d)
	}
	return designs, rows.Err()
}

func (s *SQLite) RenameDesign(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE designs SET name = ?, updated_at = ? WHERE id = ?`, name, now(), id)
	return affected(res, err)
}

func (s *SQLite) DeleteDesign(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM designs WHERE id = ?`, id)
	return affected(res, err)
}

func (s *SQLite) AddMember(ctx context.Context, designID, userID string, role Role) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO design_members (design_id, user_id, role, created_at)
		VALUES (?, ?, ?, ?)`, designID, userID, string(role), now())
	return sqliteError(err)
}

func scanMember(row interface{ Scan(...any) error }) (Member, error) {
	var m Member
	var role string
	if err := row.Scan(&m.DesignID, &m.UserID, &role, &m.DisplayName, &m.Email); err != nil {
		return Member{}, err
	}
	m.Role = Role(role)
	return m, nil
}

func (s *SQLite) GetMember(ctx context.Context, designID, userID string) (Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx, `
		SELECT m.design_id, m.user_id, m.role, u.display_name, u.email
		FROM design_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.design_id = ? AND m.user_id = ?`, designID, userID))
	if err != nil {
		return Member{}, sqliteError(err)
	}
	return m, nil
}

func (s *SQLite) ListMembers(ctx context.Context, designID string) ([]Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.design_id, m.user_id, m.role, u.display_name, u.email
		FROM design_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.design_id = ?
		ORDER BY m.created_at`, designID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *SQLite) RemoveMember(ctx context.Context, designID, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM design_members WHERE design_id = ? AND user_id = ?`, designID, userID)
	return affected(res, err)
}

func (s *SQLite) SaveSnapshot(ctx context.Context, id, designID string, doc []byte) (Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM designs WHERE id = ?`, designID).Scan(&exists); err != nil {
		return Snapshot{}, sqliteError(err)
	}

	snap := Snapshot{ID: id, DesignID: designID, Document: doc}
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM snapshots WHERE design_id = ?`, designID,
	).Scan(&snap.Version); err != nil {
		return Snapshot{}, fmt.Errorf("next version: %w", err)
	}

	ts := now()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, design_id, version, document, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, designID, snap.Version, string(doc), ts); err != nil {
		return Snapshot{}, sqliteError(err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE designs SET updated_at = ? WHERE id = ?`, ts, designID); err != nil {
		return Snapshot{}, sqliteError(err)
	}
	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit: %w", err)
	}
	snap.CreatedAt = parseTime(ts)
	return snap, nil
}

func (s *SQLite) GetLatestSnapshot(ctx context.Context, designID string) (Snapshot, error) {
	var snap Snapshot
	var doc, created string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, design_id, version, document, created_at
		FROM snapshots
		WHERE design_id = ?
		ORDER BY version DESC
		LIMIT 1`, designID,
	).Scan(&snap.ID, &snap.DesignID, &snap.Version, &doc, &created)
	if err != nil {
		return Snapshot{}, sqliteError(err)
	}
	snap.Document = []byte(doc)
	snap.CreatedAt = parseTime(created)
	return snap, nil
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return sqliteError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// sqliteError maps driver errors onto the store sentinels.
func sqliteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case errors.Is(err, sqlite3.CONSTRAINT_UNIQUE), errors.Is(err, sqlite3.CONSTRAINT_PRIMARYKEY):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, sqlite3.CONSTRAINT_FOREIGNKEY):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

var _ Store = (*SQLite)(nil)
