package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
)

// getSecret is an indirection over GetSecret for tests.
var getSecret = GetSecret

var errUsage = errors.New("usage")

// maskToken hides all but the last four characters.
func maskToken(t string) string {
	if len(t) <= 8 {
		return strings.Repeat("*", len(t))
	}
	return strings.Repeat("*", 8) + t[len(t)-4:]
}

func (a *App) ShowToken(ctx context.Context) error {
	tok, ok, err := a.tokens.Get(ctx)
	if err != nil {
		a.log.Error(ctx, "read token", "error", err)
		fmt.Fprintln(a.out, "Failed to read token:", err)
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "No token")
		return nil
	}
	fmt.Fprintln(a.out, "Token:", maskToken(tok))
	return nil
}

// SetToken caches the token given as the only argument, or prompts for it
// without echo.
func (a *App) SetToken(ctx context.Context, args []string) error {
	var tok string
	switch len(args) {
	case 0:
		var err error
		if tok, err = getSecret("Enter token", a.out); err != nil {
			return err
		}
	case 1:
		tok = args[0]
	default:
		fmt.Fprintln(a.out, "Usage: settoken [token]")
		return errUsage
	}
	if tok == "" {
		fmt.Fprintln(a.out, "Empty token ignored")
		return errUsage
	}

	if err := a.tokens.Save(ctx, tok, a.persist); err != nil {
		a.log.Error(ctx, "save token", "error", err)
		fmt.Fprintln(a.out, "Failed to save token:", err)
		return err
	}
	fmt.Fprintln(a.out, "Token saved")
	return nil
}

func (a *App) RefreshToken(ctx context.Context) error {
	if _, err := a.tokens.Refresh(ctx, a.persist); err != nil {
		switch {
		case errors.Is(err, api.ErrUnauthorized):
			fmt.Fprintln(a.out, "Token rejected by server, use settoken to sign in again")
		case errors.Is(err, api.ErrUnavailable):
			fmt.Fprintln(a.out, "Server unavailable, try again later")
		default:
			fmt.Fprintln(a.out, err)
		}
		return err
	}
	fmt.Fprintln(a.out, "Token renewed")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.tokens.Remove(ctx); err != nil {
		a.log.Error(ctx, "remove token", "error", err)
		fmt.Fprintln(a.out, "Failed to remove token:", err)
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
