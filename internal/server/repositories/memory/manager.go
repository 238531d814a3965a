package memory

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/together/internal/dbx"
	"github.com/dmitrijs2005/together/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/together/internal/server/repositories/activationtokens"
	"github.com/dmitrijs2005/together/internal/server/repositories/friendrequests"
	"github.com/dmitrijs2005/together/internal/server/repositories/friendships"
	"github.com/dmitrijs2005/together/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/together/internal/server/repositories/rooms"
)

// RepositoryManager vends repositories over one Store. The handle passed to
// the factories is ignored: isolation comes from Store.InTx.
type RepositoryManager struct {
	s *Store
}

var _ repomanager.RepositoryManager = (*RepositoryManager)(nil)

func NewRepositoryManager(s *Store) *RepositoryManager {
	return &RepositoryManager{s: s}
}

// RunMigrations has nothing to migrate.
func (m *RepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *RepositoryManager) Accounts(dbx.DBTX) accounts.Repository {
	return &AccountRepository{s: m.s}
}

func (m *RepositoryManager) ActivationTokens(dbx.DBTX) activationtokens.Repository {
	return &ActivationTokenRepository{s: m.s}
}

func (m *RepositoryManager) FriendRequests(dbx.DBTX) friendrequests.Repository {
	return &FriendRequestRepository{s: m.s}
}

func (m *RepositoryManager) Friendships(dbx.DBTX) friendships.Repository {
	return &FriendshipRepository{s: m.s}
}

func (m *RepositoryManager) Rooms(dbx.DBTX) rooms.Repository {
	return &RoomRepository{s: m.s}
}
