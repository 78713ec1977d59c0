package domain

// Slot is a generated, not-yet-reserved candidate start time. A slot is a
// start time, not a reservation of duration: the booked appointment carries
// its own duration.
type Slot struct {
	Start           TimeOfDay
	DurationMinutes int
}

// GenerateSlots enumerates bookable slot start times for one day from the
// given availability windows, in window order. Within a window the cursor
// starts at Start and advances by SlotMinutes; a trailing remainder shorter
// than a full slot is never emitted. Inactive windows are skipped.
//
// Slots are not deduplicated across windows: the store forbids overlapping
// active windows, so duplicates indicate a store-side invariant breach, not
// something to paper over here. No windows means no slots, not an error.
func GenerateSlots(windows []AvailabilityWindow) []Slot {
	out := make([]Slot, 0, 16)
	for _, w := range windows {
		if !w.Active {
			continue
		}
		step := w.SlotMinutes
		if step <= 0 {
			step = DefaultSlotMinutes
		}
		for cursor := w.Start; cursor.Add(step) <= w.End; cursor = cursor.Add(step) {
			out = append(out, Slot{Start: cursor, DurationMinutes: step})
		}
	}
	return out
}
