package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool and applies the schema.
func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	schema, err := migration("postgres.sql")
	if err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply migration: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) CreateUser(ctx context.Context, u User) (User, error) {
	err := p.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		u.ID, u.Email, u.PasswordHash, u.DisplayName,
	).Scan(&u.CreatedAt)
	if err != nil {
		return User{}, pgError(err)
	}
	return u, nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return p.getUser(ctx, `SELECT id, email, password, display_name, created_at FROM users WHERE email = $1`, email)
}

func (p *Postgres) GetUserByID(ctx context.Context, id string) (User, error) {
	return p.getUser(ctx, `SELECT id, email, password, display_name, created_at FROM users WHERE id = $1`, id)
}

func (p *Postgres) getUser(ctx context.Context, query, arg string) (User, error) {
	var u User
	err := p.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		return User{}, pgError(err)
	}
	return u, nil
}

func (p *Postgres) CreateDesign(ctx context.Context, d Design) (Design, error) {
	err := p.pool.QueryRow(ctx, `
		INSERT INTO designs (id, name, owner_id)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		d.ID, d.Name, d.OwnerID,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return Design{}, pgError(err)
	}
	return d, nil
}

func (p *Postgres) GetDesign(ctx context.Context, id string) (Design, error) {
	var d Design
	err := p.pool.QueryRow(ctx, `
		SELECT id, name, owner_id, created_at, updated_at
		FROM designs WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.OwnerID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return Design{}, pgError(err)
	}
	return d, nil
}

func (p *Postgres) ListDesignsForUser(ctx context.Context, userID string) ([]Design, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT d.id, d.name, d.owner_id, d.created_at, d.updated_at
		FROM designs d
		JOIN design_members m ON m.design_id = d.id
		WHERE m.user_id = $1
		ORDER BY d.updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	designs := []Design{}
	for rows.Next() {
		var d Design
		if err := rows.Scan(&d.ID, &d.Name, &d.OwnerID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan design: %w", err)
		}
		designs = append(designs, d)
	}
	return designs, rows.Err()
}

func (p *Postgres) RenameDesign(ctx context.Context, id, name string) error {
	tag, err := p.pool.Exec(ctx, `UPDATE designs SET name = $2, updated_at = now() WHERE id = $1`, id, name)
	if err != nil {
		return pgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteDesign(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM designs WHERE id = $1`, id)
	if err != nil {
		return pgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) AddMember(ctx context.Context, designID, userID string, role Role) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO design_members (design_id, user_id, role)
		VALUES ($1, $2, $3)`, designID, userID, string(role))
	return pgError(err)
}

func (p *Postgres) GetMember(ctx context.Context, designID, userID string) (Member, error) {
	var m Member
	var role string
	err := p.pool.QueryRow(ctx, `
		SELECT m.design_id, m.user_id, m.role, u.display_name, u.email
		FROM design_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.design_id = $1 AND m.user_id = $2`, designID, userID,
	).Scan(&m.DesignID, &m.UserID, &role, &m.DisplayName, &m.Email)
	if err != nil {
		return Member{}, pgError(err)
	}
	m.Role = Role(role)
	return m, nil
}

func (p *Postgres) ListMembers(ctx context.Context, designID string) ([]Member, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT m.design_id, m.user_id, m.role, u.display_name, u.email
		FROM design_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.design_id = $1
		ORDER BY m.created_at`, designID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		var m Member
		var role string
		if err := rows.Scan(&m.DesignID, &m.UserID, &role, &m.DisplayName, &m.Email); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m.Role = Role(role)
		members = append(members, m)
	}
	return members, rows.Err()
}

func (p *Postgres) RemoveMember(ctx context.Context, designID, userID string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM design_members WHERE design_id = $1 AND user_id = $2`, designID, userID)
	if err != nil {
		return pgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) SaveSnapshot(ctx context.Context, id, designID string, doc []byte) (Snapshot, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Concurrent saves of one design queue on the row lock, so MAX(version)
	// below always sees the previous save's commit.
	var locked int
	if err := tx.QueryRow(ctx, `SELECT 1 FROM designs WHERE id = $1 FOR UPDATE`, designID).Scan(&locked); err != nil {
		return Snapshot{}, pgError(err)
	}

	s := Snapshot{ID: id, DesignID: designID, Document: doc}
	err = tx.QueryRow(ctx, `
		INSERT INTO snapshots (id, design_id, version, document)
		SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3
		FROM snapshots WHERE design_id = $2
		RETURNING version, created_at`,
		id, designID, doc,
	).Scan(&s.Version, &s.CreatedAt)
	if err != nil {
		return Snapshot{}, pgError(err)
	}
	if _, err := tx.Exec(ctx, `UPDATE designs SET updated_at = now() WHERE id = $1`, designID); err != nil {
		return Snapshot{}, pgError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("commit: %w", err)
	}
	return s, nil
}

func (p *Postgres) GetLatestSnapshot(ctx context.Context, designID string) (Snapshot, error) {
	var s Snapshot
	err := p.pool.QueryRow(ctx, `
		SELECT id, design_id, version, document, created_at
		FROM snapshots
		WHERE design_id = $1
		ORDER BY version DESC
		LIMIT 1`, designID,
	).Scan(&s.ID, &s.DesignID, &s.Version, &s.Document, &s.CreatedAt)
	if err != nil {
		return Snapshot{}, pgError(err)
	}
	return s, nil
}

// pgError maps pgx errors onto the store sentinels.
func pgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}

var _ Store = (*Postgres)(nil)
