// Package proto declares the staffdir.v1.DirectoryService gRPC contract.
// Requests and responses are google.protobuf.Struct messages whose field
// names are listed below; helpers in messages.go convert them to and from
// the users package types.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "staffdir.v1.DirectoryService"

// Full method names, as seen by interceptors.
const (
	MethodPing         = "/" + ServiceName + "/Ping"
	MethodAuthenticate = "/" + ServiceName + "/Authenticate"
	MethodListUsers    = "/" + ServiceName + "/ListUsers"
	MethodCreateUser   = "/" + ServiceName + "/CreateUser"
	MethodUpdateUser   = "/" + ServiceName + "/UpdateUser"
	MethodRemoveUser   = "/" + ServiceName + "/RemoveUser"
	MethodClearUsers   = "/" + ServiceName + "/ClearUsers"
)

type DirectoryServiceServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Authenticate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClearUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type DirectoryServiceClient interface {
	Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Authenticate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CreateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RemoveUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ClearUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

func RegisterDirectoryServiceServer(s grpc.ServiceRegistrar, srv DirectoryServiceServer) {
	s.RegisterService(&DirectoryService_ServiceDesc, srv)
}

type unaryCall func(DirectoryServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DirectoryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DirectoryServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var DirectoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DirectoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(MethodPing, DirectoryServiceServer.Ping)},
		{MethodName: "Authenticate", Handler: unaryHandler(MethodAuthenticate, DirectoryServiceServer.Authenticate)},
		{MethodName: "ListUsers", Handler: unaryHandler(MethodListUsers, DirectoryServiceServer.ListUsers)},
		{MethodName: "CreateUser", Handler: unaryHandler(MethodCreateUser, DirectoryServiceServer.CreateUser)},
		{MethodName: "UpdateUser", Handler: unaryHandler(MethodUpdateUser, DirectoryServiceServer.UpdateUser)},
		{MethodName: "RemoveUser", Handler: unaryHandler(MethodRemoveUser, DirectoryServiceServer.RemoveUser)},
		{MethodName: "ClearUsers", Handler: unaryHandler(MethodClearUsers, DirectoryServiceServer.ClearUsers)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "staffdir/v1/directory.proto",
}

type directoryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDirectoryServiceClient(cc grpc.ClientConnInterface) DirectoryServiceClient {
	return &directoryServiceClient{cc: cc}
}

func (c *directoryServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *directoryServiceClient) Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodPing, in, opts)
}

func (c *directoryServiceClient) Authenticate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodAuthenticate, in, opts)
}

func (c *directoryServiceClient) ListUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodListUsers, in, opts)
}

func (c *directoryServiceClient) CreateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodCreateUser, in, opts)
}

func (c *directoryServiceClient) UpdateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodUpdateUser, in, opts)
}

func (c *directoryServiceClient) RemoveUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodRemoveUser, in, opts)
}

func (c *directoryServiceClient) ClearUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodClearUsers, in, opts)
}
