package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/staffdir/internal/common"
	pb "github.com/dmitrijs2005/staffdir/internal/proto"
	"github.com/dmitrijs2005/staffdir/internal/server/auth"
	"github.com/dmitrijs2005/staffdir/internal/server/metrics"
	"github.com/dmitrijs2005/staffdir/internal/users"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return pb.NewStatusResponse("OK"), nil
}

func (s *GRPCServer) Authenticate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	login, pin := pb.CredentialsFromRequest(req)

	u, err := s.users.Authenticate(ctx, login, pin)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.metrics.ObserveAuth(metrics.AuthFailure)
		}
		return nil, s.toStatus(ctx, "authenticate", err)
	}

	token, err := auth.GenerateToken(u.ID, u.Role, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	s.metrics.ObserveAuth(metrics.AuthSuccess)
	return pb.NewSessionResponse(token, *u)
}

func (s *GRPCServer) ListUsers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	list, err := s.users.List(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, "list", err)
	}
	return pb.NewUsersResponse(list)
}

// CreateUser enrolls a new employee. The response carries the generated PIN
// so the manager can hand it over; it is the only response that does.
func (s *GRPCServer) CreateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	n := pb.NewUserFromRequest(req)
	if n.Role == users.RoleAdmin && !callerIsAdmin(ctx) {
		return nil, s.forbidden(ctx, "create", "")
	}

	u, err := s.users.Enroll(ctx, n)
	if err != nil {
		return nil, s.toStatus(ctx, "create", err)
	}

	if c, ok := ClaimsFromContext(ctx); ok {
		s.logger.Info(ctx, "employee enrolled", "id", u.ID, "by", c.UserID)
	}
	return pb.NewUserResponse(*u, true)
}

func (s *GRPCServer) UpdateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, patch := pb.PatchFromRequest(req)
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	if patch.Role != nil && *patch.Role == users.RoleAdmin && !callerIsAdmin(ctx) {
		return nil, s.forbidden(ctx, "update", id)
	}
	if err := s.checkTarget(ctx, "update", id); err != nil {
		return nil, err
	}

	u, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, s.toStatus(ctx, "update", err)
	}
	return pb.NewUserResponse(*u, false)
}

func (s *GRPCServer) RemoveUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := pb.IDFromRequest(req)
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	if err := s.checkTarget(ctx, "remove", id); err != nil {
		return nil, err
	}

	if err := s.users.Remove(ctx, id); err != nil {
		return nil, s.toStatus(ctx, "remove", err)
	}
	return pb.NewStatusResponse("OK"), nil
}

func (s *GRPCServer) ClearUsers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := s.users.Clear(ctx); err != nil {
		return nil, s.toStatus(ctx, "clear", err)
	}
	return pb.NewStatusResponse("OK"), nil
}

// ADMIN records and the ADMIN role are reserved to administrators; a
// manager may not grant, edit or remove them.
func callerIsAdmin(ctx context.Context) bool {
	c, ok := ClaimsFromContext(ctx)
	return ok && c.Role == users.RoleAdmin
}

func (s *GRPCServer) checkTarget(ctx context.Context, op, id string) error {
	if callerIsAdmin(ctx) {
		return nil
	}
	target, err := s.users.Get(ctx, id)
	if err != nil {
		return s.toStatus(ctx, op, err)
	}
	if target.Role == users.RoleAdmin {
		return s.forbidden(ctx, op, id)
	}
	return nil
}

func (s *GRPCServer) forbidden(ctx context.Context, op, target string) error {
	var caller string
	if c, ok := ClaimsFromContext(ctx); ok {
		caller = c.UserID
	}
	s.logger.Warn(ctx, "admin tier change denied", "op", op, "user", caller, "target", target)
	return status.Error(codes.PermissionDenied, common.ErrForbidden.Error())
}

// toStatus maps directory errors to gRPC status codes. Storage faults and
// unknown errors are logged and reported without detail.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "user not found")
	case errors.Is(err, common.ErrorConflict):
		return status.Error(codes.AlreadyExists, "login already exists")
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "invalid login or PIN")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	s.logger.Error(ctx, "request failed", "op", op, "error", err)
	return status.Error(codes.Internal, "internal error")
}
