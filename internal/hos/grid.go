package hos

import "time"

// GridSlots is the fixed resolution of an ELD daily grid: 24 hours of
// 15-minute slots.
const (
	GridSlots      = 96
	MinutesPerSlot = 15
)

// LogGrid is the fixed-resolution rendering of one daily log, suitable for
// ELD display and export.
type LogGrid struct {
	Slots  [GridSlots]DutyStatus `json:"slots"`
	Totals Totals                `json:"totals"`
}

// RenderGrid converts a day's duty periods into a 96-slot status grid plus
// aggregate totals. Each slot holds the status that occupied the majority
// of its 15 minutes; on a tie, the status active at the start of the slot.
// Rendering is pure: the same day always yields the identical grid.
func RenderGrid(day Day) LogGrid {
	// Paint a minute-resolution timeline first; slots are derived from it
	// so partial overlaps resolve exactly.
	var timeline [MinutesPerDay]DutyStatus
	for i := range timeline {
		timeline[i] = StatusOffDuty
	}

	var grid LogGrid
	for _, p := range day.Periods {
		start := minuteOfDay(day.Date, p.Start)
		end := start + p.Minutes()
		if end > MinutesPerDay {
			end = MinutesPerDay
		}
		for m := start; m < end; m++ {
			timeline[m] = p.Status
		}
		grid.Totals.add(p.Status, end-start)
	}

	for slot := 0; slot < GridSlots; slot++ {
		counts := map[DutyStatus]int{}
		base := slot * MinutesPerSlot
		for m := base; m < base+MinutesPerSlot; m++ {
			counts[timeline[m]]++
		}

		best := timeline[base]
		for _, status := range []DutyStatus{StatusOffDuty, StatusSleeper, StatusDriving, StatusOnDuty} {
			if counts[status] > counts[best] {
				best = status
			}
		}
		grid.Slots[slot] = best
	}

	return grid
}

func minuteOfDay(midnight, t time.Time) int {
	m := int(t.Sub(midnight) / time.Minute)
	if m < 0 {
		return 0
	}
	if m > MinutesPerDay {
		return MinutesPerDay
	}
	return m
}
