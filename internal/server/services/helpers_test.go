package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/together/internal/server/auth"
	"github.com/dmitrijs2005/together/internal/server/config"
	"github.com/dmitrijs2005/together/internal/server/models"
	"github.com/dmitrijs2005/together/internal/server/repositories/memory"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type sentCode struct {
	accountID string
	code      string
	expiresAt time.Time
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (n *fakeNotifier) SendActivationCode(_ context.Context, a models.Account, code string, expiresAt time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentCode{accountID: a.ID, code: code, expiresAt: expiresAt})
	return nil
}

func (n *fakeNotifier) last() sentCode {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent[len(n.sent)-1]
}

// env wires every service over one in-memory store.
type env struct {
	store    *memory.Store
	repos    *memory.RepositoryManager
	tokens   *auth.TokenService
	identity *IdentityResolver
	gate     *SessionGate
	engine   *RelationshipEngine
	rooms    *RoomMembershipManager
	accounts *AccountService
	notifier *fakeNotifier
	clock    time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	now := func() time.Time { return e.clock }

	e.store = memory.NewStore()
	t.Cleanup(func() { _ = e.store.Close() })
	e.repos = memory.NewRepositoryManager(e.store)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	e.tokens = auth.NewTokenService([]byte("test-secret"), time.Hour)
	e.identity = NewIdentityResolver(e.store, e.repos)
	e.gate = NewSessionGate(e.tokens, e.identity)

	e.engine = NewRelationshipEngine(e.store, e.repos, e.identity)
	e.engine.now = now

	e.rooms = NewRoomMembershipManager(e.store, e.repos, e.identity)
	e.rooms.now = now

	e.notifier = &fakeNotifier{}
	e.accounts = NewAccountService(e.store, e.repos, e.tokens, auth.NewBcryptHasher(bcrypt.MinCost), e.notifier, cfg)
	e.accounts.now = now

	return e
}

// tick advances the shared clock so that insertion order shows in timestamps.
func (e *env) tick() {
	e.clock = e.clock.Add(time.Second)
}

// seed stores enabled accounts whose id is "id-" + nickname.
func (e *env) seed(t *testing.T, nicknames ...string) {
	t.Helper()
	for _, n := range nicknames {
		a := &models.Account{
			ID:        "id-" + n,
			Email:     n + "@example.com",
			Nickname:  n,
			Enabled:   true,
			Roles:     []string{"USER"},
			CreatedAt: e.clock,
		}
		require.NoError(t, e.repos.Accounts(e.store).Save(context.Background(), a))
		e.tick()
	}
}

// login resolves a principal for nickname through the session gate.
func (e *env) login(t *testing.T, nickname string) *Principal {
	t.Helper()
	token, err := e.tokens.Issue("id-" + nickname)
	require.NoError(t, err)
	p, err := e.gate.ResolvePrincipal(context.Background(), token)
	require.NoError(t, err)
	return p
}

func (e *env) friendsOf(t *testing.T, nickname string) []string {
	t.Helper()
	list, err := e.engine.ListFriends(context.Background(), e.login(t, nickname), models.Page{})
	require.NoError(t, err)
	return nicknamesOf(list)
}

func (e *env) pendingFor(t *testing.T, nickname string) []string {
	t.Helper()
	list, err := e.engine.ListPendingReceived(context.Background(), e.login(t, nickname), models.Page{})
	require.NoError(t, err)
	return nicknamesOf(list)
}

func nicknamesOf(list []models.Account) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.Nickname)
	}
	return out
}
