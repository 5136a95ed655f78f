package testfixtures

import (
	"testing"
	"time"
)

func TestRoomFixtureOverrides(t *testing.T) {
	fixture := NewRoomFixture(WithRoomID("room-x"), WithRoomName("Conference Hall"), WithRoomCapacity(50))

	if fixture.ID != "room-x" || fixture.Name != "Conference Hall" || fixture.Capacity != 50 {
		t.Fatalf("expected overrides to apply, got %+v", fixture)
	}

	room := fixture.ToApplication()
	if room.ID != fixture.ID || room.Capacity != fixture.Capacity {
		t.Fatalf("expected faithful application conversion, got %+v", room)
	}
}

func TestBookingFixturesDoNotOverlap(t *testing.T) {
	first := NewBookingFixture()
	second := NewBookingFixture()

	if first.ID == second.ID {
		t.Fatal("expected distinct booking ids")
	}
	if first.End.After(second.Start) && second.End.After(first.Start) {
		t.Fatalf("expected non-overlapping slots, got %v-%v and %v-%v", first.Start, first.End, second.Start, second.End)
	}
}

func TestBookingFixtureSlotOverride(t *testing.T) {
	start := ReferenceTime().Add(2 * time.Hour)
	end := start.Add(90 * time.Minute)
	fixture := NewBookingFixture(WithBookingRoom("room-7"), WithBookingSlot(start, end))

	if fixture.RoomID != "room-7" {
		t.Fatalf("expected room override, got %q", fixture.RoomID)
	}
	record := fixture.ToPersistence()
	if !record.Start.Equal(start) || !record.End.Equal(end) {
		t.Fatalf("expected slot override to survive conversion, got %v-%v", record.Start, record.End)
	}
}
