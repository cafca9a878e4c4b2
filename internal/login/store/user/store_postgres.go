package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"relay/pkg/platform/sentinel"
)

// Schema applied by migrations; kept here for reference and tests.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
    id               TEXT PRIMARY KEY,
    email            TEXT NOT NULL,
    name             TEXT NOT NULL DEFAULT '',
    avatar           TEXT NOT NULL DEFAULT '',
    password_hash    TEXT NOT NULL DEFAULT '',
    provider         TEXT NOT NULL DEFAULT '',
    provider_user_id TEXT NOT NULL DEFAULT '',
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (lower(email));
CREATE UNIQUE INDEX IF NOT EXISTS users_provider_key ON users (provider, provider_user_id)
    WHERE provider <> '';
`

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

// PostgresStore is the production account store.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle. The handle lifecycle is managed
// by the caller.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the users table when absent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure users schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, record *Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, avatar, password_hash, provider, provider_user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.ID, record.Email, record.Name, record.Avatar,
		record.PasswordHash, record.Provider, record.ProviderUserID, record.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("email already registered: %w", sentinel.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Record, error) {
	return s.findOne(ctx, `SELECT `+columns+` FROM users WHERE id = $1`, id)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Record, error) {
	return s.findOne(ctx, `SELECT `+columns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (s *PostgresStore) FindByProvider(ctx context.Context, provider, providerUserID string) (*Record, error) {
	return s.findOne(ctx,
		`SELECT `+columns+` FROM users WHERE provider = $1 AND provider_user_id = $2`,
		provider, providerUserID,
	)
}

const columns = `id, email, name, avatar, password_hash, provider, provider_user_id, created_at`

func (s *PostgresStore) findOne(ctx context.Context, query string, args ...any) (*Record, error) {
	var record Record
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&record.ID, &record.Email, &record.Name, &record.Avatar,
		&record.PasswordHash, &record.Provider, &record.ProviderUserID, &record.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user lookup: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	return &record, nil
}

var _ Store = (*PostgresStore)(nil)
