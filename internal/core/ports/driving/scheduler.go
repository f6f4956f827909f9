package driving

import (
	"time"

	"github.com/contargo/s3sync/internal/core/domain"
)

// ScheduleController manages the recurring sync schedule at runtime.
type ScheduleController interface {
	// Schedule returns the current interval and enabled flag.
	Schedule() domain.Schedule

	// UpdateInterval replaces the interval, re-enables the scheduler if
	// it was disabled, and reschedules effective immediately. Fails with
	// domain.ErrInvalidInterval for non-positive intervals.
	UpdateInterval(interval time.Duration) error

	// Disable stops future firings. A run already in flight is not
	// interrupted.
	Disable()
}
