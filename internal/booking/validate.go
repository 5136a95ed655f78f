package booking

import "time"

// Business rules for a reservable interval. Starts are allowed through the
// 22:00 hour inclusive; the end must land no later than 23:00 sharp.
const (
	FirstStartHour = 8
	LastStartHour  = 22
	EndCutoffHour  = 23

	MinDuration = 30 * time.Minute
	MaxDuration = 8 * time.Hour
)

// Reason identifies a single time-range rule violation.
type Reason string

const (
	// ReasonEndBeforeStart indicates the end instant is not after the start.
	ReasonEndBeforeStart Reason = "end-before-start"
	// ReasonNotFuture indicates the start instant is not strictly in the future.
	ReasonNotFuture Reason = "not-future"
	// ReasonStartOutsideHours indicates the start falls outside business hours.
	ReasonStartOutsideHours Reason = "outside-business-hours-start"
	// ReasonEndOutsideHours indicates the end falls after the 23:00 cutoff.
	ReasonEndOutsideHours Reason = "outside-business-hours-end"
	// ReasonTooLong indicates the interval exceeds the maximum duration.
	ReasonTooLong Reason = "too-long"
	// ReasonTooShort indicates the interval is shorter than the minimum duration.
	ReasonTooShort Reason = "too-short"
)

// RangeViolation pairs a violated rule with a message suitable for users.
type RangeViolation struct {
	Reason  Reason
	Message string
}

// ValidateRange checks a candidate interval against the booking time rules and
// returns every violation in check order. An empty result means the interval
// is reservable. The first entry is the authoritative failure when callers
// only surface one.
func ValidateRange(start, end, now time.Time) []RangeViolation {
	var violations []RangeViolation

	ordered := end.After(start)
	if !ordered {
		violations = append(violations, RangeViolation{
			Reason:  ReasonEndBeforeStart,
			Message: "end time must be after start time",
		})
	}

	if !start.After(now) {
		violations = append(violations, RangeViolation{
			Reason:  ReasonNotFuture,
			Message: "start time must be in the future",
		})
	}

	if hour := start.Hour(); hour < FirstStartHour || hour > LastStartHour {
		violations = append(violations, RangeViolation{
			Reason:  ReasonStartOutsideHours,
			Message: "bookings are only allowed between 8:00 AM and 10:00 PM",
		})
	}

	if end.Hour() > EndCutoffHour || (end.Hour() == EndCutoffHour && (end.Minute() > 0 || end.Second() > 0)) {
		violations = append(violations, RangeViolation{
			Reason:  ReasonEndOutsideHours,
			Message: "bookings must end by 11:00 PM",
		})
	}

	// Duration rules are meaningless for an inverted interval.
	if ordered {
		duration := end.Sub(start)
		if duration > MaxDuration {
			violations = append(violations, RangeViolation{
				Reason:  ReasonTooLong,
				Message: "booking duration cannot exceed 8 hours",
			})
		}
		if duration < MinDuration {
			violations = append(violations, RangeViolation{
				Reason:  ReasonTooShort,
				Message: "booking duration must be at least 30 minutes",
			})
		}
	}

	return violations
}
