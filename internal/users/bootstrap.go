package users

import (
	"context"
	"errors"
)

// Default administrator seeded on first run so the app is never locked out.
const (
	DefaultAdminID    = "admin-default-id"
	DefaultAdminName  = "Admin User"
	DefaultAdminLogin = "admin"
	DefaultAdminPIN   = "admin"
)

var errAdminExists = errors.New("admin user already exists")

func DefaultAdmin() User {
	return User{
		ID:    DefaultAdminID,
		Name:  DefaultAdminName,
		Login: DefaultAdminLogin,
		PIN:   DefaultAdminPIN,
		Role:  RoleAdmin,
	}
}

// BootstrapDefaultAdmin creates the default administrator unless a record
// with login "admin" already exists, whatever its role. The existence check
// and the insert run as one mutation, so concurrent callers create exactly
// one admin; the others report created == false.
func (s *Service) BootstrapDefaultAdmin(ctx context.Context) (created bool, err error) {
	err = s.mutate(ctx, "bootstrap", func(list []User) ([]User, error) {
		if indexByLogin(list, DefaultAdminLogin) >= 0 {
			return nil, errAdminExists
		}
		return append(list, DefaultAdmin()), nil
	})

	switch {
	case errors.Is(err, errAdminExists):
		s.logger.Info(ctx, "admin user already exists")
		return false, nil
	case err != nil:
		s.logger.Error(ctx, "failed to create default admin user", "error", err)
		return false, err
	}

	s.logger.Warn(ctx, "default admin user created, change its PIN", "login", DefaultAdminLogin)
	return true, nil
}
