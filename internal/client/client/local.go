package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/staffdir/internal/kvstore"
	"github.com/dmitrijs2005/staffdir/internal/logging"
	"github.com/dmitrijs2005/staffdir/internal/users"
)

// LocalDirectory runs the directory in-process against a store the console
// opened itself.
type LocalDirectory struct {
	*users.Service
	store kvstore.Store
}

// OpenLocal opens the store described by cfg and makes sure the default
// administrator exists, so a fresh install can be logged into.
func OpenLocal(ctx context.Context, cfg kvstore.Config, logger logging.Logger) (*LocalDirectory, error) {
	store, err := kvstore.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	return newLocalDirectory(ctx, store, logger)
}

func newLocalDirectory(ctx context.Context, store kvstore.Store, logger logging.Logger) (*LocalDirectory, error) {
	svc := users.NewService(store, logger)

	created, err := svc.BootstrapDefaultAdmin(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if created {
		logger.Warn(ctx, "default administrator created", "login", users.DefaultAdminLogin)
	}

	return &LocalDirectory{Service: svc, store: store}, nil
}

// Logout is a no-op: local sessions live only in the console.
func (d *LocalDirectory) Logout() {}

func (d *LocalDirectory) Close() error {
	return d.store.Close()
}
