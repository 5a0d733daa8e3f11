package client

import (
	"context"

	"github.com/dmitrijs2005/staffdir/internal/users"
)

// Directory is what the console needs from the staff directory, whether it
// is a local store or a remote server.
type Directory interface {
	List(ctx context.Context) ([]users.User, error)
	Authenticate(ctx context.Context, login, pin string) (*users.User, error)
	Enroll(ctx context.Context, n users.NewUser) (*users.User, error)
	Update(ctx context.Context, id string, p users.Patch) (*users.User, error)
	Remove(ctx context.Context, id string) error
	Logout()
	Close() error
}

var (
	_ Directory = (*GRPCClient)(nil)
	_ Directory = (*LocalDirectory)(nil)
)
