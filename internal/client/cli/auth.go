package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/staffdir/internal/client/client"
	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/dmitrijs2005/staffdir/internal/users"
)

// getPassword is an indirection used to facilitate testing.
var getPassword = GetPassword

// Login asks for a login and PIN and opens a session. Blank input is
// rejected before the directory is consulted; otherwise both values are
// passed on exactly as typed.
func (a *App) Login(ctx context.Context) error {
	login, err := GetRawText(a.reader, "Login", a.out)
	if err != nil {
		return err
	}

	pinBytes, err := getPassword(a.reader, "PIN", a.out)
	if err != nil {
		return err
	}
	pin := string(pinBytes)
	common.WipeByteArray(pinBytes)

	if err := users.ValidateCredentials(login, pin); err != nil {
		a.println("Login and PIN are required.")
		return err
	}

	u, err := a.dir.Authenticate(ctx, login, pin)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			a.println("Invalid login or PIN.")
		case errors.Is(err, client.ErrRateLimited):
			a.println("Too many login attempts, try again later.")
		default:
			a.logger.Error(ctx, "login failed", "error", err)
			a.println("An error occurred while trying to log in.")
		}
		return err
	}

	a.user = u
	a.println("Welcome, " + u.Name + "!")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.dir.Logout()
	a.user = nil
	a.println("Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if a.user == nil {
		a.println("Not logged in.")
		return nil
	}
	a.println(a.user.Name + " (" + a.user.Login + ", " + a.user.Role + ")")
	return nil
}
