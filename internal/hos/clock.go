package hos

// CycleState is a read-only snapshot of a duty clock, taken after every
// advance. All durations are minutes.
type CycleState struct {
	Cycle          CycleType
	DayDriving     int
	DayOnDuty      int
	WindowOpen     bool
	WindowElapsed  int
	SinceBreak     int
	OffStreak      int
	CycleUsed      int
	CycleRemaining int
}

// Clock tracks the running duty totals of a single driver across a trip.
// It enforces nothing by itself; the Break/Rest policy and the schedule
// builder consult it to decide when driving must stop.
//
// A Clock is owned by one Build invocation and is not safe for concurrent
// use.
type Clock struct {
	cycle CycleType

	dayDriving    int // driving minutes since the last 10h+ rest
	dayOnDuty     int // driving + on-duty minutes since the last 10h+ rest
	windowOpen    bool
	windowElapsed int // wall-clock minutes since the first on-duty event of the day
	sinceBreak    int // driving minutes since the last 30min+ off/sleeper stretch
	offStreak     int // consecutive off-duty/sleeper minutes

	// On-duty minutes per calendar day, oldest first. Bounded by the
	// cycle's window length; StartDay rolls it.
	dayUsage []int
}

// NewClock creates a duty clock for the given cycle type.
func NewClock(cycle CycleType) (*Clock, error) {
	if !cycle.Valid() {
		return nil, &ConfigurationError{Field: "cycle_type", Reason: string(cycle) + " is not a recognized cycle"}
	}
	return &Clock{cycle: cycle, dayUsage: []int{0}}, nil
}

// Advance records minutes spent in the given duty status and returns the
// resulting snapshot.
func (c *Clock) Advance(status DutyStatus, minutes int) (CycleState, error) {
	if minutes < 0 {
		return CycleState{}, &ConfigurationError{Field: "duration", Reason: "negative duration"}
	}
	if !status.Valid() {
		return CycleState{}, &ConfigurationError{Field: "status", Reason: string(status) + " is not a duty status"}
	}

	switch status {
	case StatusDriving:
		c.dayDriving += minutes
		c.dayOnDuty += minutes
		c.sinceBreak += minutes
		c.offStreak = 0
		c.windowOpen = true
		c.windowElapsed += minutes
		c.accrue(minutes)
	case StatusOnDuty:
		c.dayOnDuty += minutes
		c.offStreak = 0
		c.windowOpen = true
		c.windowElapsed += minutes
		c.accrue(minutes)
	case StatusOffDuty, StatusSleeper:
		c.offStreak += minutes
		if c.windowOpen {
			// The 14-hour window keeps running through short breaks.
			c.windowElapsed += minutes
		}
		if c.offStreak >= BreakMinutes {
			c.sinceBreak = 0
		}
		if c.offStreak >= RestMinutes {
			c.resetDay()
		}
		if c.offStreak >= RestartMinutes {
			c.resetCycle()
		}
	}

	return c.State(), nil
}

// StartDay rolls the cycle accounting over a midnight boundary. Daily
// driving and window clocks are unaffected: those reset on a 10-hour rest,
// not at midnight.
func (c *Clock) StartDay() {
	c.dayUsage = append(c.dayUsage, 0)
	if len(c.dayUsage) > c.cycle.Days() {
		c.dayUsage = c.dayUsage[1:]
	}
}

// State returns the current snapshot.
func (c *Clock) State() CycleState {
	used := c.CycleUsed()
	return CycleState{
		Cycle:          c.cycle,
		DayDriving:     c.dayDriving,
		DayOnDuty:      c.dayOnDuty,
		WindowOpen:     c.windowOpen,
		WindowElapsed:  c.windowElapsed,
		SinceBreak:     c.sinceBreak,
		OffStreak:      c.offStreak,
		CycleUsed:      used,
		CycleRemaining: c.cycle.MaxMinutes() - used,
	}
}

// CycleUsed returns on-duty minutes accumulated inside the rolling window.
func (c *Clock) CycleUsed() int {
	total := 0
	for _, m := range c.dayUsage {
		total += m
	}
	return total
}

// CycleRemaining returns on-duty minutes still available before the cycle
// ceiling. Never negative.
func (c *Clock) CycleRemaining() int {
	if r := c.cycle.MaxMinutes() - c.CycleUsed(); r > 0 {
		return r
	}
	return 0
}

func (c *Clock) accrue(minutes int) {
	c.dayUsage[len(c.dayUsage)-1] += minutes
}

func (c *Clock) resetDay() {
	c.dayDriving = 0
	c.dayOnDuty = 0
	c.windowOpen = false
	c.windowElapsed = 0
}

// resetCycle implements the 34-hour restart: all hours inside the rolling
// window are forgotten.
func (c *Clock) resetCycle() {
	for i := range c.dayUsage {
		c.dayUsage[i] = 0
	}
}
