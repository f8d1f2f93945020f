package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
	"github.com/dmitrijs2005/taskkeeper/internal/client/reminder"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

// TokenCache is the session surface the CLI drives. *session.TokenCache
// implements it.
type TokenCache interface {
	Save(ctx context.Context, token string, persist bool) error
	Get(ctx context.Context) (string, bool, error)
	Remove(ctx context.Context) error
	Refresh(ctx context.Context, persist bool) (*api.Response, error)
}

// ReminderCodec is the reminder surface the CLI drives. *reminder.Codec
// implements it.
type ReminderCodec interface {
	Save(ctx context.Context, enabled bool, unit reminder.Unit, amount float64) error
	DisplaySettings(ctx context.Context) (*reminder.DisplaySettings, error)
	DefaultTaskReminder(ctx context.Context) (*reminder.TaskReminder, error)
}

type App struct {
	tokens    TokenCache
	reminders ReminderCodec
	persist   bool
	log       logging.Logger

	in  io.Reader
	out io.Writer
	now func() time.Time
}

// NewApp wires the REPL to stdin/stdout. persist is passed to every token
// save and refresh.
func NewApp(tokens TokenCache, reminders ReminderCodec, persist bool, log logging.Logger) *App {
	if log == nil {
		log = logging.NewNop()
	}
	return &App{
		tokens:    tokens,
		reminders: reminders,
		persist:   persist,
		log:       log.With("component", "cli"),
		in:        os.Stdin,
		out:       os.Stdout,
		now:       time.Now,
	}
}

// getStatus renders the prompt status: whether a token is cached.
func (a *App) getStatus(ctx context.Context) string {
	_, ok, err := a.tokens.Get(ctx)
	switch {
	case err != nil:
		return "(storage error)"
	case ok:
		return "(signed in)"
	default:
		return "(no token)"
	}
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to taskkeeper CLI (type 'help' for commands)")
	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, bufio.NewScanner(a.in))
}
