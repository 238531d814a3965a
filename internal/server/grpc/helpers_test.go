package grpc

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/together/internal/logging"
	"github.com/dmitrijs2005/together/internal/server/auth"
	"github.com/dmitrijs2005/together/internal/server/config"
	"github.com/dmitrijs2005/together/internal/server/models"
	"github.com/dmitrijs2005/together/internal/server/repositories/memory"
	"github.com/dmitrijs2005/together/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type codeBox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (b *codeBox) SendActivationCode(_ context.Context, a models.Account, code string, _ time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.codes[a.ID] = code
	return nil
}

func (b *codeBox) codeFor(accountID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.codes[accountID]
}

type testEnv struct {
	store  *memory.Store
	repos  *memory.RepositoryManager
	tokens *auth.TokenService
	codes  *codeBox
	server *GRPCServer
}

func newTestEnv(t *testing.T, interceptors ...grpc.UnaryServerInterceptor) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	e := &testEnv{
		store:  memory.NewStore(),
		tokens: auth.NewTokenService([]byte("test-secret"), time.Hour),
		codes:  &codeBox{codes: map[string]string{}},
	}
	t.Cleanup(func() { _ = e.store.Close() })
	e.repos = memory.NewRepositoryManager(e.store)

	identity := services.NewIdentityResolver(e.store, e.repos)
	e.server = NewGRPCServer("127.0.0.1:0", nopLogger{},
		services.NewSessionGate(e.tokens, identity),
		services.NewAccountService(e.store, e.repos, e.tokens, auth.NewBcryptHasher(bcrypt.MinCost), e.codes, cfg),
		services.NewRelationshipEngine(e.store, e.repos, identity),
		services.NewRoomMembershipManager(e.store, e.repos, identity),
		interceptors...,
	)
	return e
}

// seed stores an enabled account whose id is "id-" + nickname and returns a
// session token for it.
func (e *testEnv) seed(t *testing.T, nickname string, roles ...string) string {
	t.Helper()
	if len(roles) == 0 {
		roles = []string{"USER"}
	}
	a := &models.Account{
		ID:        "id-" + nickname,
		Email:     nickname + "@example.com",
		Nickname:  nickname,
		Enabled:   true,
		Roles:     roles,
		CreatedAt: time.Now(),
	}
	require.NoError(t, e.repos.Accounts(e.store).Save(context.Background(), a))

	token, err := e.tokens.Issue(a.ID)
	require.NoError(t, err)
	return token
}

// dial serves e.server over an in-process listener and returns a client.
func (e *testEnv) dial(t *testing.T) (*Client, *grpc.ClientConn) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.server.serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn), conn
}
