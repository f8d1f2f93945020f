package reminder

import (
	"fmt"
	"math"
)

type Unit string

const (
	UnitMinutes Unit = "minutes"
	UnitHours   Unit = "hours"
	UnitDays    Unit = "days"
	UnitMonths  Unit = "months"
)

const (
	SecondsPerMinute = 60
	SecondsPerHour   = 60 * SecondsPerMinute
	SecondsPerDay    = 24 * SecondsPerHour
	// SecondsPerMonth is a fixed 30-day month (2,592,000 s). Stored offsets
	// were encoded with it; a calendar-aware month would change their meaning.
	SecondsPerMonth = 30 * SecondsPerDay
)

var multipliers = map[Unit]float64{
	UnitMinutes: SecondsPerMinute,
	UnitHours:   SecondsPerHour,
	UnitDays:    SecondsPerDay,
	UnitMonths:  SecondsPerMonth,
}

// ParseUnit accepts the four unit names.
func ParseUnit(s string) (Unit, error) {
	u := Unit(s)
	if _, ok := multipliers[u]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, s)
	}
	return u, nil
}

// Seconds converts amount of unit to seconds. ok is false for an unknown
// unit, in which case seconds is 0.
func Seconds(unit Unit, amount float64) (seconds float64, ok bool) {
	m, ok := multipliers[unit]
	if !ok {
		return 0, false
	}
	return amount * m, true
}

// InferDisplayUnit picks the coarsest unit that divides the offset evenly,
// checking months, then days, then hours, and falling back to minutes.
// The result is always enabled; callers only pass enabled offsets.
func InferDisplayUnit(amountSeconds float64) DisplaySettings {
	minutes := amountSeconds / 60

	var (
		amount float64
		unit   Unit
	)
	switch {
	case math.Mod(minutes/60/24, 30) == 0:
		amount, unit = minutes/60/24/30, UnitMonths
	case math.Mod(minutes/60, 24) == 0:
		amount, unit = minutes/60/24, UnitDays
	case math.Mod(minutes, 60) == 0:
		amount, unit = minutes/60, UnitHours
	default:
		amount, unit = minutes, UnitMinutes
	}

	return DisplaySettings{Enabled: true, Amount: &amount, Unit: unit}
}
