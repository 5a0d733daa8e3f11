package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/google/uuid"
)

const maxEnrollAttempts = 5

// seams for tests
var (
	newID    = uuid.NewString
	newLogin = GenerateLogin
	newPIN   = GeneratePIN
)

// Enroll adds an employee. Missing id, login or PIN are generated; a
// generated login that collides with an existing one is regenerated a few
// times before giving up with ErrorConflict. An explicit login is used as
// given and a collision is returned immediately.
func (s *Service) Enroll(ctx context.Context, n NewUser) (*User, error) {
	n.Name = strings.TrimSpace(n.Name)
	if err := ValidateNew(n); err != nil {
		return nil, err
	}

	u := User{ID: n.ID, Name: n.Name, Login: n.Login, PIN: n.PIN, Role: n.Role}
	if u.ID == "" {
		u.ID = newID()
	}
	if u.PIN == "" {
		pin, err := newPIN()
		if err != nil {
			return nil, err
		}
		u.PIN = pin
	}

	if u.Login != "" {
		if err := s.Create(ctx, u); err != nil {
			return nil, err
		}
		return &u, nil
	}

	for range maxEnrollAttempts {
		login, err := newLogin()
		if err != nil {
			return nil, err
		}
		u.Login = login

		err = s.Create(ctx, u)
		if err == nil {
			return &u, nil
		}
		if !errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("no free login after %d attempts: %w", maxEnrollAttempts, common.ErrorConflict)
}
