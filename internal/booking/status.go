package booking

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// Status classifies a booking relative to the current time. It is derived on
// every read and never persisted, so it cannot go stale.
type Status string

const (
	// StatusUpcoming means the booking has not started yet.
	StatusUpcoming Status = "upcoming"
	// StatusActive means the current time falls inside the booked interval.
	StatusActive Status = "active"
	// StatusCompleted means the booking has already ended.
	StatusCompleted Status = "completed"
)

// ResolveStatus derives the temporal state of the interval [start, end) at
// the supplied instant.
func ResolveStatus(start, end, now time.Time) Status {
	switch {
	case !end.After(now):
		return StatusCompleted
	case !start.After(now):
		return StatusActive
	default:
		return StatusUpcoming
	}
}

// DurationHours returns the booked duration in hours rounded to two decimals.
func DurationHours(start, end time.Time) float64 {
	return math.Round(end.Sub(start).Hours()*100) / 100
}

// TimeUntilStart phrases the wait before an upcoming booking in human terms,
// e.g. "2 hours from now". Only meaningful when the booking is upcoming.
func TimeUntilStart(start, now time.Time) string {
	return humanize.RelTime(start, now, "ago", "from now")
}

// FormatTimeRange renders the interval for display, e.g.
// "Jan 2, 2026 3:04 PM - 4:30 PM".
func FormatTimeRange(start, end time.Time) string {
	return start.Format("Jan 2, 2006 3:04 PM") + " - " + end.Format("3:04 PM")
}
