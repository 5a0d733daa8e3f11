package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	canManage() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context) error
	Remove(ctx context.Context) error
}

func helpText(a execIface) string {
	switch {
	case !a.isLoggedIn():
		return "Available commands: login, exit"
	case a.canManage():
		return "Available commands: (l)ist, add, edit, remove, whoami, logout, exit"
	default:
		return "Available commands: (l)ist, whoami, logout, exit"
	}
}

// runREPL reads commands line by line from reader and dispatches them to a.
// It returns on EOF or when the user types "exit" or "quit".
//
// Commands other than help, login and exit need a session; add, edit and
// remove additionally need a managing role. Handlers report their own
// errors to the user, so their return values are ignored here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("staff %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn(helpText(a))
			continue
		case "login":
			_ = a.Login(ctx)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			if isKnownCommand(cmd) {
				printlnFn("Please log in first.")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "l", "list":
			_ = a.List(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "add", "edit", "remove":
			if !a.canManage() {
				printlnFn("Only ADMIN or gerente can manage employees.")
				continue
			}
			switch cmd {
			case "add":
				_ = a.Add(ctx)
			case "edit":
				_ = a.Edit(ctx)
			case "remove":
				_ = a.Remove(ctx)
			}

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func isKnownCommand(cmd string) bool {
	switch cmd {
	case "l", "list", "whoami", "logout", "add", "edit", "remove":
		return true
	}
	return false
}
