package domain

import (
	"fmt"
	"time"
)

// Schedule is the scheduler's live configuration.
type Schedule struct {
	// Interval is how often a sync run fires.
	Interval time.Duration

	// Enabled is false when only manual runs are allowed.
	Enabled bool
}

// Validate checks that the interval is usable for recurring execution.
func (s Schedule) Validate() error {
	if s.Interval < time.Second {
		return fmt.Errorf("%w: schedule interval %s is below 1s", ErrInvalidInput, s.Interval)
	}
	return nil
}

// HumanInterval renders the interval as "N hour(s) and M minute(s)" for
// log output.
func (s Schedule) HumanInterval() string {
	hours := int(s.Interval.Hours())
	minutes := int(s.Interval.Minutes()) - hours*60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%d hour(s) and %d minute(s)", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%d hour(s)", hours)
	default:
		return fmt.Sprintf("%d minute(s)", minutes)
	}
}
