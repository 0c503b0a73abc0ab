package hos

// Requirement is the rest obligation the break/rest policy derives from a
// duty clock before further driving is allowed.
type Requirement int

const (
	// RequireNone means driving may continue.
	RequireNone Requirement = iota
	// RequireBreak30 means a 30-minute off-duty or sleeper break is due.
	RequireBreak30
	// RequireRest10 means a 10-hour consecutive rest is due.
	RequireRest10
	// RequireRestart34 means the cycle ceiling is reached and a 34-hour
	// restart is due.
	RequireRestart34
)

func (r Requirement) String() string {
	switch r {
	case RequireBreak30:
		return "break_30min"
	case RequireRest10:
		return "rest_10hr"
	case RequireRestart34:
		return "restart_34hr"
	default:
		return "none"
	}
}

// Minutes returns the mandated length of the requirement.
func (r Requirement) Minutes() int {
	switch r {
	case RequireBreak30:
		return BreakMinutes
	case RequireRest10:
		return RestMinutes
	case RequireRestart34:
		return RestartMinutes
	default:
		return 0
	}
}

// NextRequirement decides what, if anything, must be inserted before the
// next driving period. Stronger requirements win: when a break and a rest
// become due simultaneously, the rest is returned and satisfies the break
// as well.
func NextRequirement(c *Clock) Requirement {
	s := c.State()

	if s.CycleRemaining <= 0 {
		return RequireRestart34
	}
	if s.DayDriving >= MaxDailyDrivingMinutes {
		return RequireRest10
	}
	if s.WindowOpen && s.WindowElapsed >= DutyWindowMinutes {
		return RequireRest10
	}
	if s.SinceBreak >= BreakAfterMinutes {
		return RequireBreak30
	}
	return RequireNone
}

// DrivableMinutes returns how long the driver may keep driving before some
// rule forces a transition: the break threshold, the 11-hour driving
// ceiling, or the 14-hour duty window. Returns 0 when a requirement is
// already due.
func DrivableMinutes(c *Clock) int {
	if NextRequirement(c) != RequireNone {
		return 0
	}
	s := c.State()

	limit := BreakAfterMinutes - s.SinceBreak
	if d := MaxDailyDrivingMinutes - s.DayDriving; d < limit {
		limit = d
	}
	if w := DutyWindowMinutes - s.WindowElapsed; s.WindowOpen && w < limit {
		limit = w
	}
	if !s.WindowOpen && DutyWindowMinutes < limit {
		// First on-duty event of the day opens the window.
		limit = DutyWindowMinutes
	}
	if s.CycleRemaining < limit {
		limit = s.CycleRemaining
	}
	return limit
}
