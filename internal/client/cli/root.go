package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	if a.user == nil {
		return ""
	}
	return fmt.Sprintf("(%s %s)", a.user.Login, a.user.Role)
}

// Root shows the login screen and then the command loop.
func (a *App) Root(ctx context.Context) {
	a.println("Staff directory console (type 'help' for commands)")
	if a.config != nil && !a.config.LocalMode() {
		a.println("Server:", a.config.ServerEndpointAddr)
	}

	_ = a.Login(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}
