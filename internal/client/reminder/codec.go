package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/dmitrijs2005/taskkeeper/internal/client/storage"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

// StorageKey is the durable key of the persisted default reminder.
const StorageKey = "defaultReminder"

var (
	ErrInvalidUnit       = errors.New("invalid reminder unit")
	ErrMalformedSettings = errors.New("malformed reminder settings")
)

// OffsetSettings is the stored form. Amount is in seconds.
type OffsetSettings struct {
	Enabled bool    `json:"enabled"`
	Amount  float64 `json:"amount"`
}

// DisplaySettings is the form shown to the user. Amount and Unit are unset
// when the reminder is disabled.
type DisplaySettings struct {
	Enabled bool     `json:"enabled"`
	Amount  *float64 `json:"amount,omitempty"`
	Unit    Unit     `json:"type,omitempty"`
}

type Codec struct {
	store  storage.Store
	strict bool
	log    logging.Logger
}

type Option func(*Codec)

// WithStrictUnits makes Save reject unknown units with ErrInvalidUnit.
// Without it an unknown unit is stored as a 0-second offset.
func WithStrictUnits() Option {
	return func(c *Codec) {
		c.strict = true
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *Codec) {
		c.log = l
	}
}

func NewCodec(store storage.Store, opts ...Option) *Codec {
	c := &Codec{store: store}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logging.NewNop()
	}
	c.log = c.log.With("component", "reminder")
	return c
}

// Save stores the offset, replacing any previous one. The stored amount is
// whole seconds: fractional results are rounded to the nearest second.
func (c *Codec) Save(ctx context.Context, enabled bool, unit Unit, amount float64) error {
	if c.strict {
		if _, err := ParseUnit(string(unit)); err != nil {
			return err
		}
	}

	seconds, ok := Seconds(unit, amount)
	if !ok {
		c.log.Warn(ctx, "unknown reminder unit, storing zero offset", "unit", unit)
	}

	b, err := json.Marshal(OffsetSettings{Enabled: enabled, Amount: math.Round(seconds)})
	if err != nil {
		return err
	}
	return c.store.Set(ctx, StorageKey, string(b))
}

// Load returns the stored settings, or nil when none were saved. A stored
// value that is not a settings object fails with ErrMalformedSettings.
func (c *Codec) Load(ctx context.Context) (*OffsetSettings, error) {
	raw, ok, err := c.store.Get(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return decodeSettings(raw)
}

func decodeSettings(raw string) (*OffsetSettings, error) {
	var stored struct {
		Enabled *bool    `json:"enabled"`
		Amount  *float64 `json:"amount"`
	}
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSettings, err)
	}
	if stored.Enabled == nil {
		return nil, fmt.Errorf("%w: missing enabled", ErrMalformedSettings)
	}

	s := &OffsetSettings{Enabled: *stored.Enabled}
	if stored.Amount != nil {
		s.Amount = *stored.Amount
	} else if s.Enabled {
		return nil, fmt.Errorf("%w: missing amount", ErrMalformedSettings)
	}
	return s, nil
}

// EnabledAmountSeconds returns the stored offset when a reminder is saved and
// enabled. ok is false both when nothing is saved and when it is disabled.
func (c *Codec) EnabledAmountSeconds(ctx context.Context) (seconds float64, ok bool, err error) {
	s, err := c.Load(ctx)
	if err != nil || s == nil || !s.Enabled {
		return 0, false, err
	}
	return s.Amount, true, nil
}

// DisplaySettings returns the stored reminder in display form, or nil when
// none was saved.
func (c *Codec) DisplaySettings(ctx context.Context) (*DisplaySettings, error) {
	s, err := c.Load(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	if !s.Enabled {
		return &DisplaySettings{Enabled: false}, nil
	}
	d := InferDisplayUnit(s.Amount)
	return &d, nil
}
