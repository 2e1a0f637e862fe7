package scope

import (
	"time"
)

// Clock is a source of timestamps suitable for measuring durations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// systemClock reads the process clock. Timestamps returned by time.Now carry a monotonic reading,
// so differences between them are immune to wall-clock adjustments.
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
