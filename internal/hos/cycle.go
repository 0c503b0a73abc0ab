package hos

import "fmt"

// CycleType identifies which FMCSA duty cycle a trip is planned under.
type CycleType string

const (
	// Cycle70_8 is the 70-hour/8-day cycle.
	Cycle70_8 CycleType = "70_8"
	// Cycle60_7 is the 60-hour/7-day cycle.
	Cycle60_7 CycleType = "60_7"
)

// Valid reports whether the cycle type is one of the recognized values.
func (c CycleType) Valid() bool {
	return c == Cycle70_8 || c == Cycle60_7
}

// Days returns the length of the rolling window in calendar days.
func (c CycleType) Days() int {
	if c == Cycle60_7 {
		return 7
	}
	return 8
}

// MaxMinutes returns the on-duty ceiling of the rolling window in minutes.
func (c CycleType) MaxMinutes() int {
	if c == Cycle60_7 {
		return 3600 // 60 hours
	}
	return 4200 // 70 hours
}

// DutyStatus is a driver's duty status. Every minute of a duty day maps to
// exactly one status.
type DutyStatus string

const (
	StatusOffDuty DutyStatus = "off_duty"
	StatusSleeper DutyStatus = "sleeper"
	StatusDriving DutyStatus = "driving"
	StatusOnDuty  DutyStatus = "on_duty"
)

// Valid reports whether the status is one of the four recognized values.
func (s DutyStatus) Valid() bool {
	switch s {
	case StatusOffDuty, StatusSleeper, StatusDriving, StatusOnDuty:
		return true
	}
	return false
}

// IsRest reports whether time in this status counts toward breaks, rests
// and restarts.
func (s DutyStatus) IsRest() bool {
	return s == StatusOffDuty || s == StatusSleeper
}

// Regulatory limits, in minutes. These are fixed by FMCSA rule, not
// configurable per trip.
const (
	MaxDailyDrivingMinutes = 660  // 11 hours of driving per day
	DutyWindowMinutes      = 840  // 14-hour duty window from first on-duty event
	BreakAfterMinutes      = 480  // break due after 8 cumulative driving hours
	BreakMinutes           = 30   // mandatory break length
	RestMinutes            = 600  // mandatory off-duty rest length (10 hours)
	RestartMinutes         = 2040 // 34 consecutive hours resets the cycle
	MinutesPerDay          = 1440
)

// ConfigurationError reports invalid trip parameters. It is returned before
// any schedule generation begins and is never retried.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid trip configuration: %s: %s", e.Field, e.Reason)
}
