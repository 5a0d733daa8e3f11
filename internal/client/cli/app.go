package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/staffdir/internal/client/client"
	"github.com/dmitrijs2005/staffdir/internal/client/config"
	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/dmitrijs2005/staffdir/internal/logging"
	"github.com/dmitrijs2005/staffdir/internal/users"
)

type App struct {
	config *config.Config
	dir    client.Directory
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer
	user   *users.User
}

// NewApp opens the directory selected by c: a local store when no server
// address is set, the remote server otherwise.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, "text", c.LogLevel).With("module", "cli")

	var dir client.Directory
	if c.LocalMode() {
		local, err := client.OpenLocal(ctx, c.Storage, logger)
		if err != nil {
			return nil, err
		}
		dir = local
	} else {
		remote, err := client.NewDirectoryClient(c.ServerEndpointAddr, c.RequestTimeout)
		if err != nil {
			return nil, err
		}
		if err := remote.Ping(ctx); err != nil {
			logger.Warn(ctx, "server did not answer ping", "address", c.ServerEndpointAddr, "error", err)
		}
		dir = remote
	}

	return newApp(c, dir, logger, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, dir client.Directory, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		dir:    dir,
		logger: logger,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.dir.Close(); err != nil {
			a.logger.Error(ctx, "close failed", "error", err)
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) canManage() bool {
	return a.user != nil && a.user.CanManageStaff()
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// sessionLost reports whether err means the server no longer accepts the
// session, and logs the user out locally if so.
func (a *App) sessionLost(err error) bool {
	if errors.Is(err, common.ErrTokenExpired) || errors.Is(err, common.ErrorUnauthorized) {
		a.user = nil
		a.dir.Logout()
		a.println("Session expired, please log in again.")
		return true
	}
	return false
}
