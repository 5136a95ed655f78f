package booking

import (
	"testing"
	"time"
)

func TestResolveStatus(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)

	cases := []struct {
		name       string
		start, end time.Time
		want       Status
	}{
		{name: "spanning now is active", start: now.Add(-time.Hour), end: now.Add(time.Hour), want: StatusActive},
		{name: "starting later is upcoming", start: now.Add(time.Hour), end: now.Add(2 * time.Hour), want: StatusUpcoming},
		{name: "ended earlier is completed", start: now.Add(-2 * time.Hour), end: now.Add(-time.Hour), want: StatusCompleted},
		{name: "ending exactly now is completed", start: now.Add(-time.Hour), end: now, want: StatusCompleted},
		{name: "starting exactly now is active", start: now, end: now.Add(time.Hour), want: StatusActive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveStatus(tc.start, tc.end, now); got != tc.want {
				t.Fatalf("ResolveStatus = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestDurationHours(t *testing.T) {
	start := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.Local)

	if got := DurationHours(start, start.Add(90*time.Minute)); got != 1.5 {
		t.Fatalf("expected 1.5 hours, got %v", got)
	}
	if got := DurationHours(start, start.Add(100*time.Minute)); got != 1.67 {
		t.Fatalf("expected 1.67 hours, got %v", got)
	}
}

func TestFormatTimeRange(t *testing.T) {
	start := time.Date(2026, time.March, 10, 15, 4, 0, 0, time.Local)
	end := start.Add(86 * time.Minute)

	got := FormatTimeRange(start, end)
	want := "Mar 10, 2026 3:04 PM - 4:30 PM"
	if got != want {
		t.Fatalf("FormatTimeRange = %q, want %q", got, want)
	}
}

func TestTimeUntilStart(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)

	got := TimeUntilStart(now.Add(2*time.Hour), now)
	if got != "2 hours from now" {
		t.Fatalf("TimeUntilStart = %q", got)
	}
}
