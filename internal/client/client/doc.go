// Package client provides the staff console's view of the directory.
//
// Directory is the contract the console programs against. Two
// implementations exist:
//
//   - LocalDirectory runs users.Service in-process over a store opened from
//     configuration, and bootstraps the default administrator on open.
//   - GRPCClient talks to cmd/server. It keeps the session token returned by
//     Authenticate, attaches it to every call through a unary interceptor and
//     maps gRPC status codes back to the sentinels in internal/common, so
//     callers match errors with errors.Is regardless of mode.
//
// Transport-only conditions are exposed as ErrUnavailable and ErrRateLimited.
package client
