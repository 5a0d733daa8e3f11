package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/common"
	pb "github.com/dmitrijs2005/staffdir/internal/proto"
	"github.com/dmitrijs2005/staffdir/internal/users"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      pb.DirectoryServiceClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

// accessTokenInterceptor attaches the session token, if any, and forgets it
// once the server reports it expired.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)

	if st, ok := status.FromError(err); ok && st.Code() == codes.Unauthenticated &&
		st.Message() == common.ErrTokenExpired.Error() {
		s.setToken("")
	}

	return err
}

// NewDirectoryClient connects to the server at endpointURL. Extra dial
// options are appended to the defaults (insecure transport, token
// interceptor).
func NewDirectoryClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewDirectoryServiceClient(conn)
	return nil
}

func (s *GRPCClient) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, &structpb.Struct{})
	if err != nil {
		return s.mapError(err)
	}

	if pb.StatusFromResponse(resp) != "OK" {
		return ErrUnavailable
	}

	return nil
}

// Authenticate logs in and keeps the session token for later calls.
func (s *GRPCClient) Authenticate(ctx context.Context, login, pin string) (*users.User, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	req, err := pb.NewCredentialsRequest(login, pin)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Authenticate(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	token, u := pb.SessionFromResponse(resp)
	s.setToken(token)

	return &u, nil
}

func (s *GRPCClient) Logout() {
	s.setToken("")
}

func (s *GRPCClient) List(ctx context.Context) ([]users.User, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	resp, err := s.client.ListUsers(ctx, &structpb.Struct{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return pb.UsersFromResponse(resp), nil
}

func (s *GRPCClient) Enroll(ctx context.Context, n users.NewUser) (*users.User, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	req, err := pb.NewCreateUserRequest(n)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.CreateUser(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	u := pb.UserFromResponse(resp)
	return &u, nil
}

func (s *GRPCClient) Update(ctx context.Context, id string, p users.Patch) (*users.User, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	req, err := pb.NewUpdateUserRequest(id, p)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.UpdateUser(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	u := pb.UserFromResponse(resp)
	return &u, nil
}

func (s *GRPCClient) Remove(ctx context.Context, id string) error {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	req, err := pb.NewIDRequest(id)
	if err != nil {
		return err
	}

	_, err = s.client.RemoveUser(ctx, req)
	return s.mapError(err)
}

func (s *GRPCClient) Clear(ctx context.Context) error {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	_, err := s.client.ClearUsers(ctx, &structpb.Struct{})
	return s.mapError(err)
}

// mapError turns gRPC statuses back into the sentinels the directory uses
// locally, so callers handle both modes the same way.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrUnavailable
		}
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated:
		if st.Message() == common.ErrTokenExpired.Error() {
			return common.ErrTokenExpired
		}
		return common.ErrorUnauthorized
	case codes.PermissionDenied:
		return common.ErrForbidden
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.AlreadyExists:
		return common.ErrorConflict
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrorValidation, st.Message())
	case codes.ResourceExhausted:
		return ErrRateLimited
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
