package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "notekeeper.db")
	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, path
}

func TestOpen_CreatesFileAndSchema(t *testing.T) {
	db, path := openTestDB(t)

	_, err := os.Stat(path)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestOpen_IsIdempotent(t *testing.T) {
	db, path := openTestDB(t)
	require.NoError(t, NewSQLiteRepository(db).Set(context.Background(), "token", "t1"))
	require.NoError(t, db.Close())

	db2, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db2.Close() })

	v, ok, err := NewSQLiteRepository(db2).Get(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t1", v)
}

func TestOpen_UnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := Open(context.Background(), filepath.Join(blocker, "sub", "notekeeper.db"))
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestSetAndGet(t *testing.T) {
	db, _ := openTestDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "username", "alice"))

	v, ok, err := r.Get(ctx, "username")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice", v)
}

func TestGet_Absent(t *testing.T) {
	db, _ := openTestDB(t)
	r := NewSQLiteRepository(db)

	v, ok, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestGet_EmptyValueIsPresent(t *testing.T) {
	db, _ := openTestDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "avatar", ""))
	_, ok, err := r.Get(ctx, "avatar")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSet_Upsert(t *testing.T) {
	db, _ := openTestDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "themeMode", "light"))
	require.NoError(t, r.Set(ctx, "themeMode", "dark"))

	v, _, err := r.Get(ctx, "themeMode")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)
}

func TestDelete_Idempotent(t *testing.T) {
	db, _ := openTestDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", "t"))
	require.NoError(t, r.Delete(ctx, "token"))
	require.NoError(t, r.Delete(ctx, "token"))

	_, ok, err := r.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListAndClear(t *testing.T) {
	db, _ := openTestDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", "t"))
	require.NoError(t, r.Set(ctx, "username", "alice"))

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"token": "t", "username": "alice"}, all)

	require.NoError(t, r.Clear(ctx))
	all, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdate_CommitsTogether(t *testing.T) {
	db, _ := openTestDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	err := r.Update(ctx, func(ctx context.Context, tx Repository) error {
		if err := tx.Set(ctx, "token", "t"); err != nil {
			return err
		}
		return tx.Set(ctx, "username", "alice")
	})
	require.NoError(t, err)

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdate_RollsBackOnError(t *testing.T) {
	db, _ := openTestDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, r.Set(ctx, "token", "old"))

	boom := errors.New("boom")
	err := r.Update(ctx, func(ctx context.Context, tx Repository) error {
		require.NoError(t, tx.Delete(ctx, "token"))
		require.NoError(t, tx.Set(ctx, "username", "bob"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, ok, err := r.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "old", v)

	_, ok, err = r.Get(ctx, "username")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdate_NestedReusesTx(t *testing.T) {
	db, _ := openTestDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	err := r.Update(ctx, func(ctx context.Context, tx Repository) error {
		return tx.Update(ctx, func(ctx context.Context, inner Repository) error {
			return inner.Set(ctx, "k", "v")
		})
	})
	require.NoError(t, err)

	v, _, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestTwoHandlesShareState(t *testing.T) {
	db, path := openTestDB(t)
	other, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = other.Close() })

	require.NoError(t, NewSQLiteRepository(db).Set(context.Background(), "themeMode", "dark"))

	v, ok, err := NewSQLiteRepository(other).Get(context.Background(), "themeMode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
}
