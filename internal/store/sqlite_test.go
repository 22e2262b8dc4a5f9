package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/avelichka/skycast/internal/auth"
)

func newTestStore(t *testing.T) *UserStore {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	s := NewUserStore(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testCredential(id, username, email string) auth.Credential {
	return auth.Credential{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefak",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestUserStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cred := testCredential("id-1", "alice", "alice@example.com")
	require.NoError(t, s.Insert(ctx, cred))

	byName, err := s.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, cred.ID, byName.ID)
	assert.Equal(t, cred.PasswordHash, byName.PasswordHash)

	byEmail, err := s.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, cred.ID, byEmail.ID)

	byID, err := s.FindByID(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestUserStoreNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, auth.ErrNotFound)

	_, err = s.FindByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestUserStoreUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testCredential("id-1", "alice", "alice@example.com")))

	err := s.Insert(ctx, testCredential("id-2", "alice", "other@example.com"))
	assert.ErrorIs(t, err, auth.ErrDuplicate)

	err = s.Insert(ctx, testCredential("id-3", "bob", "alice@example.com"))
	assert.ErrorIs(t, err, auth.ErrDuplicate)

	// Only the first insert survives.
	_, err = s.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, auth.ErrNotFound)
}
