// Package server wires configuration, storage, services and the gRPC and
// metrics endpoints into one runnable application.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/together/internal/dbx"
	"github.com/dmitrijs2005/together/internal/logging"
	"github.com/dmitrijs2005/together/internal/server/auth"
	"github.com/dmitrijs2005/together/internal/server/config"
	"github.com/dmitrijs2005/together/internal/server/metrics"
	"github.com/dmitrijs2005/together/internal/server/notify"
	"github.com/dmitrijs2005/together/internal/server/repositories/memory"
	"github.com/dmitrijs2005/together/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/together/internal/server/services"
	"github.com/sethvargo/go-retry"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"

	gs "github.com/dmitrijs2005/together/internal/server/grpc"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingAttempts = 5
	pingBackoff  = 500 * time.Millisecond
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	closeDB func() error
	grpc    *gs.GRPCServer
	metrics *metrics.Metrics
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, m, closeDB, err := openStorage(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tokens := auth.NewTokenService([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	identity := services.NewIdentityResolver(db, m)
	accounts := services.NewAccountService(db, m, tokens, auth.NewBcryptHasher(bcrypt.DefaultCost),
		notify.NewLogNotifier(logger), c)

	app := &App{config: c, logger: logger, closeDB: closeDB}

	var interceptors []grpc.UnaryServerInterceptor
	if c.MetricsAddr != "" {
		app.metrics = metrics.New()
		interceptors = append(interceptors, app.metrics.UnaryServerInterceptor())
	}

	app.grpc = gs.NewGRPCServer(c.EndpointAddrGRPC, logger,
		services.NewSessionGate(tokens, identity),
		accounts,
		services.NewRelationshipEngine(db, m, identity),
		services.NewRoomMembershipManager(db, m, identity),
		interceptors...,
	)

	return app, nil
}

// openStorage selects the storage collaborator. For PostgreSQL it waits for
// the server to accept connections and applies migrations.
func openStorage(ctx context.Context, c *config.Config, logger logging.Logger) (dbx.DB, repomanager.RepositoryManager, func() error, error) {
	if c.UsesMemoryStore() {
		logger.Warn(ctx, "using in-memory storage, data is lost on exit")
		s := memory.NewStore()
		return s, memory.NewRepositoryManager(s), s.Close, nil
	}

	sqlDB, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := ping(ctx, sqlDB, logger); err != nil {
		_ = sqlDB.Close()
		return nil, nil, nil, err
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, nil, nil, fmt.Errorf("migrations: %w", err)
	}

	opts := &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	return dbx.NewSQLDB(sqlDB, opts), m, sqlDB.Close, nil
}

func ping(ctx context.Context, db *sql.DB, logger logging.Logger) error {
	backoff := retry.WithMaxRetries(pingAttempts, retry.NewExponential(pingBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			logger.Warn(ctx, "database not ready", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpc.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.metrics.Run(ctx, app.config.MetricsAddr, app.logger); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives, or one
// of the endpoints fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.metrics != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.closeDB(); err != nil {
		app.logger.Error(ctx, "closing storage", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
