package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/xid"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/apperror"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/models"
)

// PgxPool is the subset of *pgxpool.Pool the user store needs.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const userColumns = `id, email, username, role, name, image, phone, address, created_at, updated_at`

// PostgresStore handles user records in PostgreSQL.
type PostgresStore struct {
	pool   PgxPool
	admins map[string]struct{}
	newID  func() string
}

// NewPostgresStore creates a user store. Emails in adminEmails are created
// with the admin role.
func NewPostgresStore(pool PgxPool, adminEmails []string) *PostgresStore {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[NormalizeEmail(e)] = struct{}{}
	}
	return &PostgresStore{
		pool:   pool,
		admins: admins,
		newID:  func() string { return xid.New().String() },
	}
}

// NormalizeEmail is the canonical form used as the lookup key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Migrate creates the users table if it doesn't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email      VARCHAR(255) UNIQUE NOT NULL,
			username   VARCHAR(50)  UNIQUE NOT NULL,
			role       VARCHAR(16)  NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
			name       TEXT         NOT NULL DEFAULT '',
			image      TEXT         NOT NULL DEFAULT '',
			phone      TEXT         NOT NULL DEFAULT '',
			address    TEXT         NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	return nil
}

// UpsertUser returns the user with in.Email, creating it first if absent.
// An existing record is returned unchanged. The unique email index makes
// concurrent first sign-ins converge on one row.
func (s *PostgresStore) UpsertUser(ctx context.Context, in models.NewUser) (*models.User, error) {
	email := NormalizeEmail(in.Email)
	role := models.RoleUser
	if _, ok := s.admins[email]; ok {
		role = models.RoleAdmin
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (email, username, role, name, image, phone, address)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		 RETURNING `+userColumns,
		email, s.newID(), string(role), in.Name, in.Image, in.Phone, in.Address,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = NormalizeEmail(email)
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email,
	)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("user", email)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateProfile applies the non-nil fields of upd to the user with email.
func (s *PostgresStore) UpdateProfile(ctx context.Context, email string, upd models.ProfileUpdate) (*models.User, error) {
	email = NormalizeEmail(email)
	row := s.pool.QueryRow(ctx,
		`UPDATE users SET
			name       = COALESCE($2, name),
			image      = COALESCE($3, image),
			phone      = COALESCE($4, phone),
			address    = COALESCE($5, address),
			updated_at = NOW()
		 WHERE email = $1
		 RETURNING `+userColumns,
		email, upd.Name, upd.Image, upd.Phone, upd.Address,
	)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("user", email)
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at`, string(role),
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u    models.User
		role string
	)
	err := row.Scan(&u.ID, &u.Email, &u.Username, &role, &u.Name, &u.Image,
		&u.Phone, &u.Address, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if u.Role, err = models.ParseRole(role); err != nil {
		return nil, err
	}
	return &u, nil
}
