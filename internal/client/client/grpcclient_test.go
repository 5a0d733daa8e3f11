package client

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/staffdir/internal/common"
	pb "github.com/dmitrijs2005/staffdir/internal/proto"
	"github.com/dmitrijs2005/staffdir/internal/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

/*************
 * Fake pb client
 *************/

type fakePB struct {
	lastReq *structpb.Struct
	resp    *structpb.Struct
	err     error
}

func (f *fakePB) call(in *structpb.Struct) (*structpb.Struct, error) {
	f.lastReq = in
	return f.resp, f.err
}

func (f *fakePB) Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return f.call(in)
}
func (f *fakePB) Authenticate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return f.call(in)
}
func (f *fakePB) ListUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return f.call(in)
}
func (f *fakePB) CreateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return f.call(in)
}
func (f *fakePB) UpdateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return f.call(in)
}
func (f *fakePB) RemoveUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return f.call(in)
}
func (f *fakePB) ClearUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return f.call(in)
}

func newFakeClient(f *fakePB) *GRPCClient {
	return &GRPCClient{client: f}
}

func TestAuthenticate_StoresToken(t *testing.T) {
	resp, err := pb.NewSessionResponse("tok-1", users.DefaultAdmin())
	require.NoError(t, err)

	f := &fakePB{resp: resp}
	c := newFakeClient(f)

	u, err := c.Authenticate(context.Background(), "admin", "admin")
	require.NoError(t, err)
	assert.Equal(t, users.DefaultAdminID, u.ID)
	assert.Empty(t, u.PIN)
	assert.Equal(t, "tok-1", c.token())

	login, pin := pb.CredentialsFromRequest(f.lastReq)
	assert.Equal(t, "admin", login)
	assert.Equal(t, "admin", pin)

	c.Logout()
	assert.Empty(t, c.token())
}

func TestAuthenticate_Errors(t *testing.T) {
	c := newFakeClient(&fakePB{err: status.Error(codes.Unauthenticated, "invalid login or PIN")})

	_, err := c.Authenticate(context.Background(), "x", "y")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Empty(t, c.token())
}

func TestListEnrollUpdateRemove(t *testing.T) {
	ctx := context.Background()

	list, err := pb.NewUsersResponse([]users.User{users.DefaultAdmin()})
	require.NoError(t, err)
	f := &fakePB{resp: list}
	c := newFakeClient(f)

	got, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, users.DefaultAdminLogin, got[0].Login)

	created := users.User{ID: "1", Name: "Ana", Login: "ABCD12", PIN: "123456", Role: users.RoleCook}
	f.resp, err = pb.NewUserResponse(created, true)
	require.NoError(t, err)

	u, err := c.Enroll(ctx, users.NewUser{Name: "Ana", Role: users.RoleCook})
	require.NoError(t, err)
	assert.Equal(t, created, *u)
	assert.Equal(t, "Ana", pb.NewUserFromRequest(f.lastReq).Name)

	name := "Ana Maria"
	u, err = c.Update(ctx, "1", users.Patch{Name: &name})
	require.NoError(t, err)
	id, patch := pb.PatchFromRequest(f.lastReq)
	assert.Equal(t, "1", id)
	require.NotNil(t, patch.Name)
	assert.Equal(t, name, *patch.Name)
	assert.Nil(t, patch.Login)
	assert.Equal(t, "1", u.ID)

	f.resp = pb.NewStatusResponse("OK")
	require.NoError(t, c.Remove(ctx, "1"))
	assert.Equal(t, "1", pb.IDFromRequest(f.lastReq))

	require.NoError(t, c.Clear(ctx))
}

func TestPing(t *testing.T) {
	f := &fakePB{resp: pb.NewStatusResponse("OK")}
	c := newFakeClient(f)
	require.NoError(t, c.Ping(context.Background()))

	f.resp = pb.NewStatusResponse("DEGRADED")
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)

	f.err = status.Error(codes.Unavailable, "down")
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"unauthenticated", status.Error(codes.Unauthenticated, "missing token"), common.ErrorUnauthorized},
		{"expired", status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error()), common.ErrTokenExpired},
		{"forbidden", status.Error(codes.PermissionDenied, "forbidden"), common.ErrForbidden},
		{"not found", status.Error(codes.NotFound, "user not found"), common.ErrorNotFound},
		{"conflict", status.Error(codes.AlreadyExists, "login already exists"), common.ErrorConflict},
		{"validation", status.Error(codes.InvalidArgument, "name failed"), common.ErrorValidation},
		{"rate", status.Error(codes.ResourceExhausted, "slow down"), ErrRateLimited},
		{"unavailable", status.Error(codes.Unavailable, "x"), ErrUnavailable},
		{"deadline", status.Error(codes.DeadlineExceeded, "x"), ErrUnavailable},
		{"ctx deadline", context.DeadlineExceeded, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.mapError(tt.in)
			if tt.want == nil {
				require.NoError(t, got)
				return
			}
			require.ErrorIs(t, got, tt.want)
		})
	}

	internal := status.Error(codes.Internal, "internal error")
	got := c.mapError(internal)
	assert.Contains(t, got.Error(), "rpc error")
	assert.Equal(t, codes.Internal, status.Code(errors.Unwrap(got)))
}

func TestWithAccessToken_ReplacesExisting(t *testing.T) {
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, "old", "x-other", "1")

	ctx = withAccessToken(ctx, "new")

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"new"}, md.Get(common.AccessTokenHeaderName))
	assert.Equal(t, []string{"1"}, md.Get("x-other"))
}

func TestAccessTokenInterceptor(t *testing.T) {
	c := &GRPCClient{accessToken: "tok"}

	var seen []string
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		seen = md.Get(common.AccessTokenHeaderName)
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	err := c.accessTokenInterceptor(context.Background(), pb.MethodListUsers, nil, nil, nil, invoker)
	require.Error(t, err)
	assert.Equal(t, []string{"tok"}, seen)
	assert.Empty(t, c.token(), "expired token is forgotten")

	seen = nil
	_ = c.accessTokenInterceptor(context.Background(), pb.MethodListUsers, nil, nil, nil, invoker)
	assert.Empty(t, seen, "no token attached without a session")
}
