// Package server wires the directory server together: storage, the user
// directory, the gRPC API and the operational HTTP endpoints.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/dmitrijs2005/staffdir/internal/kvstore"
	"github.com/dmitrijs2005/staffdir/internal/logging"
	"github.com/dmitrijs2005/staffdir/internal/server/config"
	"github.com/dmitrijs2005/staffdir/internal/server/httpapi"
	"github.com/dmitrijs2005/staffdir/internal/server/metrics"
	"github.com/dmitrijs2005/staffdir/internal/users"

	gs "github.com/dmitrijs2005/staffdir/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	store       kvstore.Store
	userService *users.Service
	metrics     *metrics.Metrics
}

// NewApp opens the configured store and makes sure the directory has an
// administrator to log in with.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if c.SecretKey == "" {
		secret, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("secret generation error: %w", err)
		}
		c.SecretKey = secret
		logger.Warn(ctx, "No secret key configured, using a random one; sessions will not survive a restart")
	}

	store, err := kvstore.Open(ctx, c.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	us := users.NewService(store, logger)

	created, err := us.BootstrapDefaultAdmin(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("bootstrap error: %w", err)
	}
	if created {
		logger.Warn(ctx, "Default administrator created, change its PIN", "login", users.DefaultAdminLogin)
	}

	return &App{
		config:      c,
		logger:      logger,
		store:       store,
		userService: us,
		metrics:     metrics.New(),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config, app.logger, app.userService, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.store, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or one
// of the servers fails. The store is closed before Run returns.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "store close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
