package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// RelativeTo names the task date a relative reminder is anchored to.
type RelativeTo string

const (
	RelativeToDueDate   RelativeTo = "due_date"
	RelativeToStartDate RelativeTo = "start_date"
	RelativeToEndDate   RelativeTo = "end_date"
)

// TaskReminder is a reminder attached to a task. It is either absolute
// (Reminder set) or relative: RelativePeriod seconds after the RelativeTo
// date, negative meaning before.
type TaskReminder struct {
	Reminder       *time.Time `json:"reminder"`
	RelativePeriod int64      `json:"relative_period"`
	RelativeTo     RelativeTo `json:"relative_to,omitempty"`
}

// UnmarshalJSON treats null, "" and the zero time as "no absolute reminder".
func (r *TaskReminder) UnmarshalJSON(b []byte) error {
	var wire struct {
		Reminder       *string    `json:"reminder"`
		RelativePeriod int64      `json:"relative_period"`
		RelativeTo     RelativeTo `json:"relative_to"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	*r = TaskReminder{RelativePeriod: wire.RelativePeriod, RelativeTo: wire.RelativeTo}
	if wire.Reminder == nil || *wire.Reminder == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *wire.Reminder)
	if err != nil {
		return fmt.Errorf("reminder: %w", err)
	}
	if !t.IsZero() {
		r.Reminder = &t
	}
	return nil
}

// Resolve returns when the reminder fires for a task with the given dates.
// ok is false when the anchor date is unset or unknown.
func (r TaskReminder) Resolve(due, start, end time.Time) (time.Time, bool) {
	if r.Reminder != nil {
		return *r.Reminder, true
	}

	var anchor time.Time
	switch r.RelativeTo {
	case RelativeToDueDate:
		anchor = due
	case RelativeToStartDate:
		anchor = start
	case RelativeToEndDate:
		anchor = end
	}
	if anchor.IsZero() {
		return time.Time{}, false
	}
	return anchor.Add(time.Duration(r.RelativePeriod) * time.Second), true
}

// DefaultTaskReminder builds the reminder new tasks get from the saved
// default: the stored offset before the due date. It returns nil when no
// default is enabled.
func (c *Codec) DefaultTaskReminder(ctx context.Context) (*TaskReminder, error) {
	seconds, ok, err := c.EnabledAmountSeconds(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return &TaskReminder{
		RelativePeriod: -int64(math.Round(seconds)),
		RelativeTo:     RelativeToDueDate,
	}, nil
}
