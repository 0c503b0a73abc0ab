package hos

import (
	"fmt"
	"sort"
	"time"
)

// Severity grades a detected violation.
type Severity string

const (
	SeverityWarning   Severity = "warning"
	SeverityViolation Severity = "violation"
	SeverityCritical  Severity = "critical"
)

// ViolationType identifies the HOS rule or integrity check that failed.
type ViolationType string

const (
	ViolationDailyDriving  ViolationType = "daily_driving_limit"
	ViolationDutyWindow    ViolationType = "duty_window_limit"
	ViolationBreakRequired ViolationType = "break_requirement"
	ViolationCycleLimit    ViolationType = "cycle_limit_exceeded"
	ViolationMissingDay    ViolationType = "missing_entries"
	ViolationOverlapping   ViolationType = "overlapping_entries"
	ViolationBadTotal      ViolationType = "invalid_time_sequence"
)

// Violation is a detected compliance problem. Violations are data, never
// errors: the engine always produces a schedule and annotates it instead
// of failing.
type Violation struct {
	Type        ViolationType `json:"type"`
	Severity    Severity      `json:"severity"`
	Description string        `json:"description"`
	DayIndex    int           `json:"day_index"`
	Date        time.Time     `json:"date"`
	Value       float64       `json:"value"`
	Limit       float64       `json:"limit"`
}

// ceiling reports whether this violation is a regulatory ceiling breach,
// which participates in same-day escalation.
func (v Violation) ceiling() bool {
	switch v.Type {
	case ViolationDailyDriving, ViolationDutyWindow, ViolationCycleLimit:
		return true
	}
	return false
}

// Check scans a schedule's days, in order, for HOS violations. It is
// idempotent and side-effect-free, and works equally on generated days and
// on days carrying manually appended entries.
func Check(days []Day, cycle CycleType) []Violation {
	var out []Violation

	for i, d := range days {
		out = append(out, checkDay(i, d)...)
	}
	out = append(out, checkCycle(days, cycle)...)

	// Two or more ceiling breaches attributed to the same day escalate to
	// critical.
	breaches := map[int]int{}
	for _, v := range out {
		if v.ceiling() {
			breaches[v.DayIndex]++
		}
	}
	for i, v := range out {
		if v.ceiling() && breaches[v.DayIndex] >= 2 {
			out[i].Severity = SeverityCritical
		}
	}

	return out
}

func checkDay(idx int, d Day) []Violation {
	var out []Violation

	if len(d.Periods) == 0 {
		return []Violation{{
			Type:        ViolationMissingDay,
			Severity:    SeverityCritical,
			Description: "no log entries found for this day",
			DayIndex:    idx,
			Date:        d.Date,
			Limit:       1,
		}}
	}

	periods := make([]Period, len(d.Periods))
	copy(periods, d.Periods)
	sort.Slice(periods, func(a, b int) bool { return periods[a].Start.Before(periods[b].Start) })

	var totals Totals
	for _, p := range periods {
		totals.add(p.Status, p.Minutes())
	}

	if totals.Sum() != MinutesPerDay {
		out = append(out, Violation{
			Type:        ViolationBadTotal,
			Severity:    SeverityViolation,
			Description: fmt.Sprintf("log entries total %.1f hours, not 24", float64(totals.Sum())/60),
			DayIndex:    idx,
			Date:        d.Date,
			Value:       float64(totals.Sum()) / 60,
			Limit:       24,
		})
	}

	for i := 0; i < len(periods)-1; i++ {
		if periods[i].End.After(periods[i+1].Start) {
			out = append(out, Violation{
				Type:        ViolationOverlapping,
				Severity:    SeverityViolation,
				Description: "log entries overlap in time",
				DayIndex:    idx,
				Date:        d.Date,
			})
			break
		}
	}

	if totals.Driving > MaxDailyDrivingMinutes {
		out = append(out, Violation{
			Type:     ViolationDailyDriving,
			Severity: SeverityViolation,
			Description: fmt.Sprintf("daily driving limit exceeded: %.1f hours (max 11)",
				float64(totals.Driving)/60),
			DayIndex: idx,
			Date:     d.Date,
			Value:    float64(totals.Driving) / 60,
			Limit:    11,
		})
	}

	if v, ok := checkWindow(idx, d, periods); ok {
		out = append(out, v)
	}
	if v, ok := checkBreaks(idx, d, periods); ok {
		out = append(out, v)
	}

	return out
}

// checkWindow verifies that all driving falls inside a 14-hour span from
// the first on-duty event. A 10-hour off/sleeper stretch closes the window;
// the next on-duty event opens a fresh one.
func checkWindow(idx int, d Day, periods []Period) (Violation, bool) {
	var windowStart time.Time
	open := false
	restRun := 0

	for _, p := range periods {
		if p.Status.IsRest() {
			restRun += p.Minutes()
			if restRun >= RestMinutes {
				open = false
			}
			continue
		}
		restRun = 0
		if !open {
			open = true
			windowStart = p.Start
		}
		if p.Status == StatusDriving {
			span := int(p.End.Sub(windowStart) / time.Minute)
			if span > DutyWindowMinutes {
				return Violation{
					Type:     ViolationDutyWindow,
					Severity: SeverityViolation,
					Description: fmt.Sprintf("driving %.1f hours into the 14-hour duty window",
						float64(span)/60),
					DayIndex: idx,
					Date:     d.Date,
					Value:    float64(span) / 60,
					Limit:    14,
				}, true
			}
		}
	}
	return Violation{}, false
}

// checkBreaks verifies the 30-minute break rule: cumulative driving since
// the last qualifying break must not pass 8 hours.
func checkBreaks(idx int, d Day, periods []Period) (Violation, bool) {
	driving := 0
	restRun := 0

	for _, p := range periods {
		if p.Status.IsRest() {
			restRun += p.Minutes()
			if restRun >= BreakMinutes {
				driving = 0
			}
			continue
		}
		restRun = 0
		if p.Status == StatusDriving {
			driving += p.Minutes()
			if driving > BreakAfterMinutes {
				return Violation{
					Type:     ViolationBreakRequired,
					Severity: SeverityWarning,
					Description: fmt.Sprintf("%.1f hours driven without a 30-minute break (break due after 8)",
						float64(driving)/60),
					DayIndex: idx,
					Date:     d.Date,
					Value:    float64(driving) / 60,
					Limit:    8,
				}, true
			}
		}
	}
	return Violation{}, false
}

// checkCycle scans the rolling 7/8-day window for cycle-hour breaches.
// Hours before a 34-hour restart do not count, mirroring the duty clock.
func checkCycle(days []Day, cycle CycleType) []Violation {
	counted := make([]int, len(days))
	offStreak := 0

	for i, d := range days {
		periods := make([]Period, len(d.Periods))
		copy(periods, d.Periods)
		sort.Slice(periods, func(a, b int) bool { return periods[a].Start.Before(periods[b].Start) })

		for _, p := range periods {
			if p.Status.IsRest() {
				offStreak += p.Minutes()
				if offStreak >= RestartMinutes {
					for j := 0; j <= i; j++ {
						counted[j] = 0
					}
				}
				continue
			}
			offStreak = 0
			counted[i] += p.Minutes()
		}
	}

	window := cycle.Days()
	limit := cycle.MaxMinutes()
	var out []Violation
	for i := range days {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		sum := 0
		for j := lo; j <= i; j++ {
			sum += counted[j]
		}
		if sum > limit {
			out = append(out, Violation{
				Type:     ViolationCycleLimit,
				Severity: SeverityViolation,
				Description: fmt.Sprintf("cycle limit exceeded: %.1f on-duty hours in %d days (max %d)",
					float64(sum)/60, window, limit/60),
				DayIndex: i,
				Date:     days[i].Date,
				Value:    float64(sum) / 60,
				Limit:    float64(limit) / 60,
			})
		}
	}
	return out
}
