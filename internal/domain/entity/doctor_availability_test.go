package entity

import (
	"slices"
	"testing"
	"time"
)

func TestDoctorAvailabilitySlots(t *testing.T) {
	date := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{name: "full working day", start: "09:00", end: "17:00", want: 16},
		{name: "partial trailing slot", start: "09:00", end: "10:45", want: 4},
		{name: "shorter than stride", start: "09:00", end: "09:15", want: 1},
		{name: "single digit hour", start: "9:00", end: "10:00", want: 2},
		{name: "empty window", start: "10:00", end: "10:00", want: 0},
		{name: "inverted window", start: "12:00", end: "10:00", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &DoctorAvailability{StartTime: tt.start, EndTime: tt.end}
			got := slices.Collect(a.Slots(date, DefaultSlotDuration))
			if len(got) != tt.want {
				t.Fatalf("expected %d slots, got %d", tt.want, len(got))
			}
		})
	}
}

func TestDoctorAvailabilitySlotsBounds(t *testing.T) {
	date := time.Date(2025, time.March, 3, 14, 22, 0, 0, time.UTC)
	a := &DoctorAvailability{StartTime: "09:00", EndTime: "17:00"}

	slots := slices.Collect(a.Slots(date, DefaultSlotDuration))
	first := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	last := time.Date(2025, time.March, 3, 16, 30, 0, 0, time.UTC)

	if !slots[0].Equal(first) {
		t.Errorf("expected first slot %v, got %v", first, slots[0])
	}
	if !slots[len(slots)-1].Equal(last) {
		t.Errorf("expected last slot %v, got %v", last, slots[len(slots)-1])
	}
	for i := 1; i < len(slots); i++ {
		if slots[i].Sub(slots[i-1]) != DefaultSlotDuration {
			t.Fatalf("slot %d is not one stride after the previous", i)
		}
	}
}

func TestDoctorAvailabilitySlotsRestartable(t *testing.T) {
	date := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	a := &DoctorAvailability{StartTime: "08:30", EndTime: "12:00"}
	seq := a.Slots(date, DefaultSlotDuration)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Fatalf("expected identical sequences, got %v and %v", first, second)
	}

	count := 0
	for range seq {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Fatalf("expected early stop after 2 slots, got %d", count)
	}
}

func TestDoctorAvailabilitySlotsInvalidClock(t *testing.T) {
	a := &DoctorAvailability{StartTime: "25:00", EndTime: "17:00"}
	if got := slices.Collect(a.Slots(time.Now(), DefaultSlotDuration)); len(got) != 0 {
		t.Fatalf("expected no slots for invalid start, got %d", len(got))
	}
	if _, _, err := a.Window(time.Now()); err == nil {
		t.Fatal("expected error for invalid start time")
	}
}

func TestClockHelpers(t *testing.T) {
	if !ValidClock("23:59") || ValidClock("24:00") || ValidClock("9am") {
		t.Error("ValidClock returned an unexpected result")
	}
	if !ClockBefore("09:00", "17:00") || ClockBefore("17:00", "09:00") || ClockBefore("09:00", "09:00") {
		t.Error("ClockBefore returned an unexpected result")
	}
}

func TestAppointmentIsActive(t *testing.T) {
	active := map[AppointmentStatus]bool{
		AppointmentStatusScheduled:   true,
		AppointmentStatusRescheduled: true,
		AppointmentStatusCancelled:   false,
		AppointmentStatusCompleted:   false,
	}
	for status, want := range active {
		a := &Appointment{Status: status}
		if a.IsActive() != want {
			t.Errorf("status %s: expected active=%v", status, want)
		}
	}
}
