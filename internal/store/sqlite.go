// Package store holds the sqlite-backed credential store and the in-memory
// weather report cache.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avelichka/skycast/internal/auth"
	"github.com/avelichka/skycast/internal/common"
)

// UserStore implements auth.CredentialStore on sqlite. The UNIQUE constraints
// on username and email serialize racing signups; the loser of a race gets
// auth.ErrDuplicate.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Migrate creates the schema when absent.
func (s *UserStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate users table: %w", err)
	}
	return nil
}

func (s *UserStore) Insert(ctx context.Context, cred auth.Credential) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, cred.ID, cred.Username, cred.Email, cred.PasswordHash, cred.CreatedAt)
	if err != nil {
		if common.HasAny(err.Error(), "UNIQUE constraint failed", "constraint violation") {
			return fmt.Errorf("%w: %v", auth.ErrDuplicate, err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (auth.Credential, error) {
	return s.findBy(ctx, "username", username)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (auth.Credential, error) {
	return s.findBy(ctx, "email", email)
}

func (s *UserStore) FindByID(ctx context.Context, id string) (auth.Credential, error) {
	return s.findBy(ctx, "id", id)
}

func (s *UserStore) findBy(ctx context.Context, column, value string) (auth.Credential, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE `+column+` = ?
	`, value)

	var cred auth.Credential
	err := row.Scan(&cred.ID, &cred.Username, &cred.Email, &cred.PasswordHash, &cred.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.Credential{}, auth.ErrNotFound
		}
		return auth.Credential{}, fmt.Errorf("query user by %s: %w", column, err)
	}
	return cred, nil
}
