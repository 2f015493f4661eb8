// Package server wires the credential store, the HTTP front end and the gRPC
// health service together and runs them until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/mailpasswd/internal/cryptox"
	"github.com/dmitrijs2005/mailpasswd/internal/logging"
	"github.com/dmitrijs2005/mailpasswd/internal/server/config"
	"github.com/dmitrijs2005/mailpasswd/internal/server/identity"
	"github.com/dmitrijs2005/mailpasswd/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mailpasswd/internal/server/services"
	"github.com/dmitrijs2005/mailpasswd/internal/server/shared/db"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/mailpasswd/internal/server/grpc"
	hs "github.com/dmitrijs2005/mailpasswd/internal/server/http"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	store  *services.CredentialStore
}

// NewApp opens the database, runs schema migrations and returns an App
// holding a ready credential store. A migration failure is returned and the
// caller must not start serving.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if identity.DevBypass {
		logger.Warn(ctx, "development identity bypass is compiled in")
	}

	opts := db.DefaultPoolOptions
	opts.MaxOpenConns = c.DatabaseMaxConns
	opts.MaxIdleConns = c.DatabaseMaxConns

	conn, err := db.Open(ctx, c.DatabaseDSN, opts)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	hasher := cryptox.NewHasher(
		cryptox.WithTime(c.Argon2Time),
		cryptox.WithMemory(c.Argon2Memory),
		cryptox.WithThreads(c.Argon2Threads),
	)

	created := services.NewCreatedStore(conn, repomanager.NewPostgresRepositoryManager(), hasher, logger)
	store, err := created.RunMigrations(ctx)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &App{config: c, logger: logger, db: conn, store: store}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	gin.SetMode(gin.ReleaseMode)

	admins := identity.NewAdminList(app.config.AdminUIDs)
	s := hs.NewServer(app.config.EndpointAddrHTTP, app.logger, app.store, admins, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.store, app.config.HealthCheckInterval)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "http", app.config.EndpointAddrHTTP, "grpc", app.config.EndpointAddrGRPC)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
