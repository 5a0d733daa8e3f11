// Package common defines shared constants and sentinel errors used across
// the directory service, its transports and its clients. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Directory errors.
	ErrorNotFound   = errors.New("not found")
	ErrorConflict   = errors.New("login already exists")
	ErrStorageFault = errors.New("storage fault")

	// Store-level optimistic concurrency error: the stored version moved
	// between read and write.
	ErrVersionConflict = errors.New("version conflict")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
