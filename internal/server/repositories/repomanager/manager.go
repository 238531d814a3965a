package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/together/internal/dbx"
	"github.com/dmitrijs2005/together/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/together/internal/server/repositories/activationtokens"
	"github.com/dmitrijs2005/together/internal/server/repositories/friendrequests"
	"github.com/dmitrijs2005/together/internal/server/repositories/friendships"
	"github.com/dmitrijs2005/together/internal/server/repositories/rooms"
)

// RepositoryManager vends repositories bound to a handle, which is either the
// database itself or the transaction handed out by dbx.DB.InTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	ActivationTokens(db dbx.DBTX) activationtokens.Repository
	FriendRequests(db dbx.DBTX) friendrequests.Repository
	Friendships(db dbx.DBTX) friendships.Repository
	Rooms(db dbx.DBTX) rooms.Repository
}
