// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/together/internal/dbx"
	"github.com/dmitrijs2005/together/internal/server/migrations"
	"github.com/dmitrijs2005/together/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/together/internal/server/repositories/activationtokens"
	"github.com/dmitrijs2005/together/internal/server/repositories/friendrequests"
	"github.com/dmitrijs2005/together/internal/server/repositories/friendships"
	"github.com/dmitrijs2005/together/internal/server/repositories/rooms"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) ActivationTokens(db dbx.DBTX) activationtokens.Repository {
	return activationtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) FriendRequests(db dbx.DBTX) friendrequests.Repository {
	return friendrequests.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Friendships(db dbx.DBTX) friendships.Repository {
	return friendships.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Rooms(db dbx.DBTX) rooms.Repository {
	return rooms.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
