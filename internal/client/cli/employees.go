package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/dmitrijs2005/staffdir/internal/users"
)

var errInvalidRole = errors.New("invalid role")

// List prints the directory without PINs.
func (a *App) List(ctx context.Context) error {
	list, err := a.dir.List(ctx)
	if err != nil {
		if !a.sessionLost(err) {
			a.logger.Error(ctx, "list failed", "error", err)
			a.println("Could not load employees.")
		}
		return err
	}

	if len(list) == 0 {
		a.println("No employees.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOGIN\tROLE")
	for _, u := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Login, u.Role)
	}
	return tw.Flush()
}

const msgAdminOnly = "Only ADMIN can manage administrators."

// Add enrolls an employee and shows the generated credentials once.
func (a *App) Add(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}

	role, err := a.askRole("")
	if err != nil {
		return err
	}

	u, err := a.dir.Enroll(ctx, users.NewUser{Name: name, Role: role})
	if err != nil {
		switch {
		case a.sessionLost(err):
		case errors.Is(err, common.ErrForbidden):
			a.println(msgAdminOnly)
		default:
			a.logger.Error(ctx, "enroll failed", "error", err)
			a.println("Could not add employee.")
		}
		return err
	}

	a.println("Employee added.")
	a.println("  Login:", u.Login)
	a.println("  PIN:  ", u.PIN)
	return nil
}

// Edit updates an employee. Empty answers keep the current value.
func (a *App) Edit(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Employee id", a.out)
	if err != nil {
		return err
	}

	var p users.Patch
	prompts := []struct {
		label string
		dst   **string
	}{
		{"New name (empty to keep)", &p.Name},
		{"New login (empty to keep)", &p.Login},
		{"New PIN (empty to keep)", &p.PIN},
	}
	for _, q := range prompts {
		v, err := GetSimpleText(a.reader, q.label, a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*q.dst = &v
		}
	}

	role, err := a.askRole("empty to keep")
	if err != nil {
		return err
	}
	if role != "" {
		p.Role = &role
	}

	if p.IsEmpty() {
		a.println("Nothing to change.")
		return nil
	}

	u, err := a.dir.Update(ctx, id, p)
	if err != nil {
		switch {
		case a.sessionLost(err):
		case errors.Is(err, common.ErrorNotFound):
			a.println("Employee not found.")
		case errors.Is(err, common.ErrorConflict):
			a.println("That login is already taken.")
		case errors.Is(err, common.ErrForbidden):
			a.println(msgAdminOnly)
		default:
			a.logger.Error(ctx, "update failed", "error", err)
			a.println("Could not update employee.")
		}
		return err
	}

	if a.user != nil && a.user.ID == u.ID {
		a.user = u
	}
	a.println("Employee updated.")
	return nil
}

func (a *App) Remove(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Employee id", a.out)
	if err != nil {
		return err
	}

	confirm, err := GetSimpleText(a.reader, "Remove "+id+"? (y/N)", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(confirm, "y") {
		a.println("Cancelled.")
		return nil
	}

	if err := a.dir.Remove(ctx, id); err != nil {
		switch {
		case a.sessionLost(err):
		case errors.Is(err, common.ErrorNotFound):
			a.println("Employee not found.")
		case errors.Is(err, common.ErrForbidden):
			a.println(msgAdminOnly)
		default:
			a.logger.Error(ctx, "remove failed", "error", err)
			a.println("Could not remove employee.")
		}
		return err
	}

	a.println("Employee removed.")
	return nil
}

// askRole offers the known roles by number. A role typed by name is
// accepted as is. An empty answer is only allowed when hint is set.
func (a *App) askRole(hint string) (string, error) {
	var b strings.Builder
	b.WriteString("Role")
	if hint != "" {
		b.WriteString(" (" + hint + ")")
	}
	for i, r := range users.Roles {
		fmt.Fprintf(&b, "\n  %d) %s", i+1, r)
	}

	answer, err := GetSimpleText(a.reader, b.String(), a.out)
	if err != nil {
		return "", err
	}

	if answer == "" {
		if hint == "" {
			a.println("Role is required.")
			return "", errInvalidRole
		}
		return "", nil
	}

	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(users.Roles) {
			a.println("Unknown role number.")
			return "", errInvalidRole
		}
		return users.Roles[n-1], nil
	}
	return answer, nil
}
