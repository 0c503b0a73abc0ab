package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ClockTime is a wall-clock time of day parsed from an "HH:MM" string, as
// minutes since midnight.
type ClockTime struct {
	Hour   int
	Minute int
}

// MinuteOfDay returns minutes since midnight.
func (c ClockTime) MinuteOfDay() int {
	return c.Hour*60 + c.Minute
}

// ParseClock parses an "HH:MM" string (24-hour) from a manual log entry.
// "24:00" is accepted as the exclusive end of day.
func ParseClock(raw string) (ClockTime, error) {
	s := strings.TrimSpace(raw)
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return ClockTime{}, fmt.Errorf("unable to parse clock time: %q", raw)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])

	if hour == 24 && minute == 0 {
		return ClockTime{Hour: 24}, nil
	}
	if hour > 23 || minute > 59 {
		return ClockTime{}, fmt.Errorf("clock time out of range: %q", raw)
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}
