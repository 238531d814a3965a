package friendships

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestExists_OrdersPair(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+EXISTS\s*\(\s*SELECT\s+1\s+FROM\s+friendships\s+WHERE\s+account_low\s*=\s*\$1\s+AND\s+account_high\s*=\s*\$2\s*\)\s*$`).
		WithArgs("alice", "bob").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), "bob", "alice")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExists_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+EXISTS`).WillReturnError(errors.New("db down"))

	_, err := repo.Exists(context.Background(), "a", "b")
	assert.ErrorContains(t, err, "db error: db down")
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+friendships\s*\(account_low,\s*account_high,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`).
		WithArgs("alice", "bob", created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), models.Friendship{AccountLow: "bob", AccountHigh: "alice", CreatedAt: created}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+friendships`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	err := repo.Create(context.Background(), models.NewFriendship("a", "b", time.Now()))
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+friendships`).WillReturnError(errors.New("boom"))

	err := repo.Create(context.Background(), models.NewFriendship("a", "b", time.Now()))
	assert.ErrorContains(t, err, "db error: boom")
}

func TestListFriends(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "email", "nickname", "first_name", "last_name", "password_hash", "enabled", "locked", "roles", "created_at"}).
		AddRow("bob", "bob@example.com", "bob", "Bob", "B", "h", true, false, []byte(`["USER"]`), created)
	mock.ExpectQuery(`(?s)^SELECT\s+a\.id,.*FROM\s+friendships\s+f\s+JOIN\s+accounts\s+a\s+ON.*CASE.*ORDER\s+BY\s+f\.created_at.*LIMIT\s+\$2\s+OFFSET\s+\$3\s*$`).
		WithArgs("alice", 100, 0).
		WillReturnRows(rows)

	got, err := repo.ListFriends(context.Background(), "alice", models.Page{Limit: 1000})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].ID)
}

func TestListFriends_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := repo.ListFriends(context.Background(), "alice", models.Page{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
