package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/reminder"
)

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (a *App) ShowReminder(ctx context.Context) error {
	d, err := a.reminders.DisplaySettings(ctx)
	if err != nil {
		a.log.Error(ctx, "read default reminder", "error", err)
		fmt.Fprintln(a.out, "Failed to read default reminder:", err)
		return err
	}

	switch {
	case d == nil:
		fmt.Fprintln(a.out, "No default reminder")
	case !d.Enabled:
		fmt.Fprintln(a.out, "Default reminder: off")
	default:
		var amount float64
		if d.Amount != nil {
			amount = *d.Amount
		}
		fmt.Fprintf(a.out, "Default reminder: %s %s before due date\n", formatAmount(amount), d.Unit)
	}
	return nil
}

// SetReminder expects <unit> <amount>. The unit is passed through unchecked;
// the codec decides what an unknown unit means.
func (a *App) SetReminder(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: setreminder <minutes|hours|days|months> <amount>")
		return errUsage
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil || amount < 0 {
		fmt.Fprintln(a.out, "Amount must be a non-negative number")
		return errUsage
	}

	if err := a.reminders.Save(ctx, true, reminder.Unit(args[0]), amount); err != nil {
		a.log.Error(ctx, "save default reminder", "error", err)
		fmt.Fprintln(a.out, "Failed to save default reminder:", err)
		return err
	}
	fmt.Fprintln(a.out, "Default reminder saved")
	return nil
}

func (a *App) DisableReminder(ctx context.Context) error {
	if err := a.reminders.Save(ctx, false, reminder.UnitMinutes, 0); err != nil {
		a.log.Error(ctx, "disable default reminder", "error", err)
		fmt.Fprintln(a.out, "Failed to disable default reminder:", err)
		return err
	}
	fmt.Fprintln(a.out, "Default reminder disabled")
	return nil
}

// TaskReminder shows when the default reminder would fire for a task due at
// the RFC 3339 time in args. Past fire times are flagged.
func (a *App) TaskReminder(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: taskreminder <due, e.g. 2026-01-02T15:04:05Z>")
		return errUsage
	}
	due, err := time.Parse(time.RFC3339, args[0])
	if err != nil {
		fmt.Fprintln(a.out, "Invalid due date:", err)
		return errUsage
	}

	r, err := a.reminders.DefaultTaskReminder(ctx)
	if err != nil {
		a.log.Error(ctx, "build task reminder", "error", err)
		fmt.Fprintln(a.out, "Failed to read default reminder:", err)
		return err
	}
	if r == nil {
		fmt.Fprintln(a.out, "No default reminder")
		return nil
	}

	at, _ := r.Resolve(due, time.Time{}, time.Time{})
	if at.Before(a.now()) {
		fmt.Fprintf(a.out, "Reminder at %s (already passed)\n", at.Format(time.RFC3339))
		return nil
	}
	fmt.Fprintf(a.out, "Reminder at %s\n", at.Format(time.RFC3339))
	return nil
}
