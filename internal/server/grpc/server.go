// Package grpc exposes the user directory over the staffdir.v1.DirectoryService
// gRPC contract.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/logging"
	pb "github.com/dmitrijs2005/staffdir/internal/proto"
	"github.com/dmitrijs2005/staffdir/internal/server/config"
	"github.com/dmitrijs2005/staffdir/internal/server/metrics"
	"github.com/dmitrijs2005/staffdir/internal/users"
	"google.golang.org/grpc"
)

// Directory is the subset of users.Service the server needs.
type Directory interface {
	List(ctx context.Context) ([]users.User, error)
	Get(ctx context.Context, id string) (*users.User, error)
	Authenticate(ctx context.Context, login, pin string) (*users.User, error)
	Enroll(ctx context.Context, n users.NewUser) (*users.User, error)
	Update(ctx context.Context, id string, p users.Patch) (*users.User, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type GRPCServer struct {
	address   string
	users     Directory
	logger    logging.Logger
	metrics   *metrics.Metrics
	limiter   *loginLimiter
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewGRPCServer(cfg *config.Config, l logging.Logger, dir Directory, m *metrics.Metrics) *GRPCServer {
	if m == nil {
		m = metrics.New()
	}
	return &GRPCServer{
		address:   cfg.EndpointAddrGRPC,
		logger:    l.With("module", "grpc_server"),
		users:     dir,
		metrics:   m,
		limiter:   newLoginLimiter(cfg.LoginRatePerSecond, cfg.LoginBurst),
		jwtSecret: []byte(cfg.SecretKey),
		tokenTTL:  cfg.AccessTokenValidityDuration,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully. It returns nil after a graceful stop.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.metricsInterceptor,
		s.loginRateInterceptor,
		s.accessTokenInterceptor,
	))

	pb.RegisterDirectoryServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
