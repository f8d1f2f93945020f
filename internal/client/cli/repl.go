package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	ShowToken(ctx context.Context) error
	SetToken(ctx context.Context, args []string) error
	RefreshToken(ctx context.Context) error
	Logout(ctx context.Context) error
	ShowReminder(ctx context.Context) error
	SetReminder(ctx context.Context, args []string) error
	DisableReminder(ctx context.Context) error
	TaskReminder(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  token                        show the cached token (masked)
  settoken [token]             cache a token, prompting when omitted
  refresh                      renew the token with the server
  logout                       forget the token
  reminder                     show the default reminder
  setreminder <unit> <amount>  set the default reminder (minutes|hours|days|months)
  disablereminder              turn the default reminder off
  taskreminder <due>           when the default reminder fires for a task due at <due> (RFC 3339)
  exit | quit                  leave the program`

// runREPL reads commands line by line and dispatches them to a until EOF or
// "exit"/"quit". Handlers report their own errors, so returned errors are
// ignored here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tk %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "token":
			_ = a.ShowToken(ctx)

		case "settoken":
			_ = a.SetToken(ctx, args)

		case "refresh":
			_ = a.RefreshToken(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "reminder":
			_ = a.ShowReminder(ctx)

		case "setreminder":
			_ = a.SetReminder(ctx, args)

		case "disablereminder":
			_ = a.DisableReminder(ctx)

		case "taskreminder":
			_ = a.TaskReminder(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
