package domain

import "testing"

func window(start, end TimeOfDay, slotMinutes int) AvailabilityWindow {
	return AvailabilityWindow{
		Start:       start,
		End:         end,
		SlotMinutes: slotMinutes,
		Active:      true,
	}
}

func TestGenerateSlots_ExactFit(t *testing.T) {
	slots := GenerateSlots([]AvailabilityWindow{
		window(NewTimeOfDay(9, 0), NewTimeOfDay(12, 0), 30),
	})

	if len(slots) != 6 {
		t.Fatalf("len(slots) = %d, want 6", len(slots))
	}
	if slots[0].Start != NewTimeOfDay(9, 0) {
		t.Errorf("first slot = %v, want 09:00", slots[0].Start)
	}
	if slots[5].Start != NewTimeOfDay(11, 30) {
		t.Errorf("last slot = %v, want 11:30", slots[5].Start)
	}
	for _, s := range slots {
		if s.DurationMinutes != 30 {
			t.Errorf("slot %v duration = %d, want 30", s.Start, s.DurationMinutes)
		}
	}
}

func TestGenerateSlots_NoPartialTrailingSlot(t *testing.T) {
	// 09:00-12:10 holds six full 30-minute slots; the trailing 10 minutes
	// must not produce a seventh.
	slots := GenerateSlots([]AvailabilityWindow{
		window(NewTimeOfDay(9, 0), NewTimeOfDay(12, 10), 30),
	})

	if len(slots) != 6 {
		t.Fatalf("len(slots) = %d, want 6", len(slots))
	}
	if slots[5].Start != NewTimeOfDay(11, 30) {
		t.Errorf("last slot = %v, want 11:30", slots[5].Start)
	}
}

func TestGenerateSlots_MultipleWindowsKeepOrder(t *testing.T) {
	slots := GenerateSlots([]AvailabilityWindow{
		window(NewTimeOfDay(9, 0), NewTimeOfDay(10, 0), 30),
		window(NewTimeOfDay(14, 0), NewTimeOfDay(15, 0), 20),
	})

	want := []TimeOfDay{
		NewTimeOfDay(9, 0), NewTimeOfDay(9, 30),
		NewTimeOfDay(14, 0), NewTimeOfDay(14, 20), NewTimeOfDay(14, 40),
	}
	if len(slots) != len(want) {
		t.Fatalf("len(slots) = %d, want %d", len(slots), len(want))
	}
	for i, s := range slots {
		if s.Start != want[i] {
			t.Errorf("slots[%d] = %v, want %v", i, s.Start, want[i])
		}
	}
	if slots[2].DurationMinutes != 20 {
		t.Errorf("afternoon slot duration = %d, want 20", slots[2].DurationMinutes)
	}
}

func TestGenerateSlots_SkipsInactiveWindows(t *testing.T) {
	inactive := window(NewTimeOfDay(9, 0), NewTimeOfDay(10, 0), 30)
	inactive.Active = false

	slots := GenerateSlots([]AvailabilityWindow{
		inactive,
		window(NewTimeOfDay(13, 0), NewTimeOfDay(14, 0), 30),
	})

	if len(slots) != 2 {
		t.Fatalf("len(slots) = %d, want 2", len(slots))
	}
	if slots[0].Start != NewTimeOfDay(13, 0) {
		t.Errorf("first slot = %v, want 13:00", slots[0].Start)
	}
}

func TestGenerateSlots_ZeroSlotMinutesFallsBackToDefault(t *testing.T) {
	slots := GenerateSlots([]AvailabilityWindow{
		window(NewTimeOfDay(9, 0), NewTimeOfDay(10, 0), 0),
	})

	if len(slots) != 2 {
		t.Fatalf("len(slots) = %d, want 2", len(slots))
	}
	if slots[0].DurationMinutes != DefaultSlotMinutes {
		t.Errorf("duration = %d, want %d", slots[0].DurationMinutes, DefaultSlotMinutes)
	}
}

func TestGenerateSlots_NoWindows(t *testing.T) {
	slots := GenerateSlots(nil)
	if len(slots) != 0 {
		t.Fatalf("len(slots) = %d, want 0", len(slots))
	}
}

func TestWindowOverlaps(t *testing.T) {
	a := window(NewTimeOfDay(9, 0), NewTimeOfDay(12, 0), 30)

	cases := []struct {
		name  string
		other AvailabilityWindow
		want  bool
	}{
		{"contained", window(NewTimeOfDay(10, 0), NewTimeOfDay(11, 0), 30), true},
		{"partial", window(NewTimeOfDay(11, 0), NewTimeOfDay(13, 0), 30), true},
		{"adjacent before", window(NewTimeOfDay(8, 0), NewTimeOfDay(9, 0), 30), false},
		{"adjacent after", window(NewTimeOfDay(12, 0), NewTimeOfDay(13, 0), 30), false},
		{"disjoint", window(NewTimeOfDay(14, 0), NewTimeOfDay(15, 0), 30), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Overlaps(tc.other); got != tc.want {
				t.Errorf("Overlaps = %v, want %v", got, tc.want)
			}
		})
	}
}
