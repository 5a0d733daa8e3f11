package grpc

import (
	"context"
	"errors"
	"path"
	"sync"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/common"
	pb "github.com/dmitrijs2005/staffdir/internal/proto"
	"github.com/dmitrijs2005/staffdir/internal/server/auth"
	"github.com/dmitrijs2005/staffdir/internal/server/metrics"
	"github.com/dmitrijs2005/staffdir/internal/users"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type ctxKey string

const claimsKey ctxKey = "claims"

type access int

const (
	accessPublic access = iota
	accessSession
	accessManager
	accessAdmin
)

// Methods missing from this table require a session.
var methodAccess = map[string]access{
	pb.MethodPing:         accessPublic,
	pb.MethodAuthenticate: accessPublic,
	pb.MethodListUsers:    accessSession,
	pb.MethodCreateUser:   accessManager,
	pb.MethodUpdateUser:   accessManager,
	pb.MethodRemoveUser:   accessManager,
	pb.MethodClearUsers:   accessAdmin,
}

// ClaimsFromContext returns the session claims attached by the access
// interceptor.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	required, ok := methodAccess[info.FullMethod]
	if !ok {
		required = accessSession
	}
	if required == accessPublic {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	if required >= accessManager {
		// The token may predate a demotion or removal, so privileged calls
		// use the role currently on record.
		u, err := s.users.Get(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				s.logger.Warn(ctx, "session user no longer exists", "method", info.FullMethod, "user", claims.UserID)
				return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
			}
			return nil, s.toStatus(ctx, "session", err)
		}
		current := *claims
		current.Role = u.Role
		claims = &current
	}

	switch {
	case required == accessManager && !users.IsManagerRole(claims.Role),
		required == accessAdmin && claims.Role != users.RoleAdmin:
		s.logger.Warn(ctx, "access denied", "method", info.FullMethod, "user", claims.UserID, "role", claims.Role)
		return nil, status.Error(codes.PermissionDenied, common.ErrForbidden.Error())
	}

	ctx = context.WithValue(ctx, claimsKey, claims)
	return handler(ctx, req)
}

func (s *GRPCServer) loginRateInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if info.FullMethod != pb.MethodAuthenticate {
		return handler(ctx, req)
	}

	var login string
	if st, ok := req.(*structpb.Struct); ok {
		login, _ = pb.CredentialsFromRequest(st)
	}

	if !s.limiter.allow(login) {
		s.metrics.ObserveAuth(metrics.AuthLimited)
		s.logger.Warn(ctx, "login rate limited", "login", login)
		return nil, status.Error(codes.ResourceExhausted, "too many login attempts")
	}

	return handler(ctx, req)
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.metrics.ObserveRPC(path.Base(info.FullMethod), status.Code(err).String(), time.Since(start))
	return resp, err
}

// maxTrackedLogins bounds the limiter table.
const maxTrackedLogins = 10000

// loginLimiter keeps one token bucket per login. When the table is full,
// buckets that have refilled completely are dropped; a login that is still
// throttled is never forgotten. Logins that find no room share the overflow
// bucket.
type loginLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*rate.Limiter
	overflow   *rate.Limiter
	limit      rate.Limit
	burst      int
	maxTracked int
}

func newLoginLimiter(perSecond float64, burst int) *loginLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &loginLimiter{
		limiters:   make(map[string]*rate.Limiter),
		overflow:   rate.NewLimiter(limit, burst),
		limit:      limit,
		burst:      burst,
		maxTracked: maxTrackedLogins,
	}
}

func (l *loginLimiter) allow(login string) bool {
	if l.limit == rate.Inf {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[login]
	if !ok {
		if len(l.limiters) >= l.maxTracked {
			l.evictIdle()
		}
		if len(l.limiters) >= l.maxTracked {
			return l.overflow.Allow()
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[login] = lim
	}
	return lim.Allow()
}

// evictIdle drops buckets that are full again; forgetting them changes
// nothing for the next attempt.
func (l *loginLimiter) evictIdle() {
	now := time.Now()
	for login, lim := range l.limiters {
		if lim.TokensAt(now) >= float64(l.burst) {
			delete(l.limiters, login)
		}
	}
}
