// Package booking implements the reservation rules of the room booking
// domain: interval overlap detection, time-range validity, and the derived
// temporal status of a booking. Every function is pure; the current time is
// always an explicit argument so callers control the clock.
package booking

import "time"

// Slot represents a reserved interval in a room, reduced to the fields the
// conflict detector needs.
type Slot struct {
	ID     string
	RoomID string
	Start  time.Time
	End    time.Time
}

// Overlaps reports whether the half-open intervals [s1, e1) and [s2, e2)
// intersect. Touching endpoints do not overlap, so a booking may begin the
// instant another ends.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// FindConflict returns the first existing slot whose interval intersects the
// candidate's within the same room. Slots for other rooms and the slot
// identified by excludeID are ignored; excludeID exists for a future update
// flow and is empty in the create path.
func FindConflict(existing []Slot, candidate Slot, excludeID string) (Slot, bool) {
	for _, slot := range existing {
		if excludeID != "" && slot.ID == excludeID {
			continue
		}
		if candidate.RoomID != "" && slot.RoomID != "" && slot.RoomID != candidate.RoomID {
			continue
		}
		if Overlaps(slot.Start, slot.End, candidate.Start, candidate.End) {
			return slot, true
		}
	}
	return Slot{}, false
}
