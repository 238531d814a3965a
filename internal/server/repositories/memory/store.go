// Package memory keeps every repository in process memory. Store serializes
// transactions and rolls back the whole state when a transaction fails, which
// makes it a drop-in dbx.DB for single-node runs and service tests.
package memory

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrijs2005/together/internal/dbx"
	"github.com/dmitrijs2005/together/internal/server/models"
)

// ErrNoSQL is returned by the SQL methods of Store.
var ErrNoSQL = errors.New("memory store does not execute SQL")

type txKey struct{}

type accountRec struct {
	account models.Account
	seq     uint64
}

type requestRec struct {
	req models.FriendRequest
	seq uint64
}

type friendshipRec struct {
	f   models.Friendship
	seq uint64
}

type roomRec struct {
	room    models.Room
	members []string
	seq     uint64
}

type state struct {
	seq         uint64
	accounts    map[string]accountRec
	requests    map[[2]string]requestRec
	friendships map[[2]string]friendshipRec
	rooms       map[string]roomRec
	tokens      map[string]models.ActivationToken
}

func newState() *state {
	return &state{
		accounts:    map[string]accountRec{},
		requests:    map[[2]string]requestRec{},
		friendships: map[[2]string]friendshipRec{},
		rooms:       map[string]roomRec{},
		tokens:      map[string]models.ActivationToken{},
	}
}

func (s *state) next() uint64 {
	s.seq++
	return s.seq
}

func (s *state) clone() *state {
	c := &state{
		seq:         s.seq,
		accounts:    make(map[string]accountRec, len(s.accounts)),
		requests:    maps.Clone(s.requests),
		friendships: maps.Clone(s.friendships),
		rooms:       make(map[string]roomRec, len(s.rooms)),
		tokens:      maps.Clone(s.tokens),
	}
	for k, v := range s.accounts {
		v.account.Roles = slices.Clone(v.account.Roles)
		c.accounts[k] = v
	}
	for k, v := range s.rooms {
		v.members = slices.Clone(v.members)
		c.rooms[k] = v
	}
	return c
}

// Store implements dbx.DB over in-process state. The embedded *sql.DB never
// reaches a database: every statement fails with ErrNoSQL.
type Store struct {
	*sql.DB

	mu sync.Mutex
	st *state
}

var _ dbx.DB = (*Store)(nil)

func NewStore() *Store {
	return &Store{DB: sql.OpenDB(noSQLConnector{}), st: newState()}
}

// InTx runs fn with exclusive access to the store. When fn fails every change
// it made is discarded.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			s.st = snapshot
			panic(p)
		}
		if err != nil {
			s.st = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s), s)
}

// do runs fn against the state, taking the lock unless ctx already belongs
// to a transaction of this store.
func (s *Store) do(ctx context.Context, fn func(st *state) error) error {
	if !s.inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

type noSQLConnector struct{}

func (noSQLConnector) Connect(context.Context) (driver.Conn, error) { return nil, ErrNoSQL }
func (noSQLConnector) Driver() driver.Driver                       { return noSQLDriver{} }

type noSQLDriver struct{}

func (noSQLDriver) Open(string) (driver.Conn, error) { return nil, ErrNoSQL }
