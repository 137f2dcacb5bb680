package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return NewSQLiteRepository(db), mock
}

var errLocked = errors.New("database is locked")

func TestGet_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`(?s)^SELECT\s+value\s+FROM\s+kv\s+WHERE\s+key\s*=\s*\?$`).
		WithArgs("token").
		WillReturnError(errLocked)

	_, ok, err := repo.Get(context.Background(), "token")
	require.ErrorIs(t, err, errLocked)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "kv[token]")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSet_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(`(?s)INSERT\s+INTO\s+kv`).
		WithArgs("themeMode", "dark").
		WillReturnError(errLocked)

	err := repo.Set(context.Background(), "themeMode", "dark")
	require.ErrorIs(t, err, errLocked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_RowError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("token", "t").
		AddRow("username", "alice").
		RowError(1, errLocked)
	mock.ExpectQuery(`SELECT\s+key,\s*value\s+FROM\s+kv`).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	require.ErrorIs(t, err, errLocked)
	assert.Nil(t, got)
}

func TestUpdate_RollsBackOnWriteError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT\s+INTO\s+kv`).WithArgs("token", "t").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT\s+INTO\s+kv`).WithArgs("username", "alice").WillReturnError(errLocked)
	mock.ExpectRollback()

	err := repo.Update(context.Background(), func(ctx context.Context, tx Repository) error {
		if err := tx.Set(ctx, "token", "t"); err != nil {
			return err
		}
		return tx.Set(ctx, "username", "alice")
	})
	require.ErrorIs(t, err, errLocked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_CommitError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE\s+FROM\s+kv`).WithArgs("token").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(sql.ErrConnDone)

	err := repo.Update(context.Background(), func(ctx context.Context, tx Repository) error {
		return tx.Delete(ctx, "token")
	})
	require.ErrorIs(t, err, sql.ErrConnDone)
	require.NoError(t, mock.ExpectationsWereMet())
}
