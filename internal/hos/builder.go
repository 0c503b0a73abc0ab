package hos

import (
	"math"
	"time"
)

// TripParams are the caller-owned inputs to schedule generation. Geography
// is external: the engine trusts the distance and duration it is given.
type TripParams struct {
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string
	Cycle           CycleType
	DistanceMiles   float64
	// DrivingHours is the estimated total driving time. When zero, it is
	// derived from DistanceMiles and the planner's average speed.
	DrivingHours float64
	Start        time.Time
}

// Period is one contiguous stretch of a single duty status.
type Period struct {
	Status       DutyStatus `json:"status"`
	Start        time.Time  `json:"start"`
	End          time.Time  `json:"end"`
	Location     string     `json:"location"`
	Remarks      string     `json:"remarks"`
	MilesAtStart float64    `json:"miles_at_start"`
}

// Minutes returns the period's length in whole minutes.
func (p Period) Minutes() int {
	return int(p.End.Sub(p.Start) / time.Minute)
}

// Totals are a day's aggregate minutes per duty status. For a fully built
// day they sum to 1440.
type Totals struct {
	Driving int `json:"driving"`
	OnDuty  int `json:"on_duty"`
	Sleeper int `json:"sleeper"`
	OffDuty int `json:"off_duty"`
}

// Sum returns the total minutes across all four statuses.
func (t Totals) Sum() int {
	return t.Driving + t.OnDuty + t.Sleeper + t.OffDuty
}

func (t *Totals) add(status DutyStatus, minutes int) {
	switch status {
	case StatusDriving:
		t.Driving += minutes
	case StatusOnDuty:
		t.OnDuty += minutes
	case StatusSleeper:
		t.Sleeper += minutes
	case StatusOffDuty:
		t.OffDuty += minutes
	}
}

// Day is one calendar day of the generated schedule: contiguous,
// non-overlapping periods covering the full 24 hours.
type Day struct {
	Date      time.Time `json:"date"` // midnight local to the trip start
	Periods   []Period  `json:"periods"`
	Totals    Totals    `json:"totals"`
	CycleUsed int       `json:"cycle_used_minutes"` // cycle minutes used through end of day
}

// Summary is the cycle-hours rollup reported alongside a schedule.
type Summary struct {
	TotalDrivingHours   float64 `json:"total_driving_hours"`
	CycleHoursUsed      float64 `json:"cycle_hours_used"`
	CycleHoursRemaining float64 `json:"cycle_hours_remaining"`
	TripDurationDays    int     `json:"trip_duration_days"`
}

// Schedule is the complete output of a Build call. Ownership transfers to
// the caller once returned.
type Schedule struct {
	Days      []Day      `json:"days"`
	FuelStops []FuelStop `json:"fuel_stops"`
	RestStops []RestStop `json:"rest_stops"`
	Summary   Summary    `json:"summary"`
	Final     CycleState `json:"final_cycle_state"`
}

// Options tune the schedule realism knobs that are not fixed by regulation.
type Options struct {
	AverageSpeedMPH   float64
	FuelIntervalMiles float64
	FuelStopMinutes   int
	PickupMinutes     int
	DropoffMinutes    int
}

// Planner builds HOS-compliant schedules. A Planner holds no per-trip
// state and is safe to share across requests.
type Planner struct {
	opts Options
}

// NewPlanner creates a planner, filling unset options with defaults.
func NewPlanner(opts Options) *Planner {
	if opts.AverageSpeedMPH <= 0 {
		opts.AverageSpeedMPH = 65
	}
	if opts.FuelIntervalMiles <= 0 {
		opts.FuelIntervalMiles = 1000
	}
	if opts.FuelStopMinutes <= 0 {
		opts.FuelStopMinutes = 30
	}
	if opts.PickupMinutes <= 0 {
		opts.PickupMinutes = 30
	}
	if opts.DropoffMinutes <= 0 {
		opts.DropoffMinutes = 30
	}
	return &Planner{opts: opts}
}

// Build synthesizes a compliant day-by-day duty schedule for the trip.
// It always produces a schedule for valid parameters; compliance problems
// in the output are reported by the violation detector, never as errors.
func (p *Planner) Build(params TripParams) (*Schedule, error) {
	if params.DistanceMiles < 0 {
		return nil, &ConfigurationError{Field: "total_distance_miles", Reason: "must not be negative"}
	}
	if params.DrivingHours < 0 {
		return nil, &ConfigurationError{Field: "estimated_driving_hours", Reason: "must not be negative"}
	}
	clock, err := NewClock(params.Cycle)
	if err != nil {
		return nil, err
	}

	start := params.Start
	if start.IsZero() {
		start = time.Now().UTC().Truncate(time.Minute)
	}

	hours := params.DrivingHours
	if hours == 0 && params.DistanceMiles > 0 {
		hours = params.DistanceMiles / p.opts.AverageSpeedMPH
	}
	drivingMinutes := int(math.Round(hours * 60))

	b := &tripBuilder{
		clock:  clock,
		cursor: start,
	}
	if drivingMinutes > 0 {
		b.milesPerMinute = params.DistanceMiles / float64(drivingMinutes)
	}
	b.openDay()
	// Pad from midnight up to the trip start so the first day covers a
	// full 24 hours.
	b.cursor = b.day.Date
	b.emit(StatusOffDuty, int(start.Sub(b.day.Date)/time.Minute), params.CurrentLocation, "")

	fuelMiles := PlanFuelStops(params.DistanceMiles, p.opts.FuelIntervalMiles)
	fuelDue := make([]int, len(fuelMiles))
	for i, mile := range fuelMiles {
		fuelDue[i] = int(math.Round(mile / params.DistanceMiles * float64(drivingMinutes)))
	}

	b.emit(StatusOnDuty, p.opts.PickupMinutes, params.PickupLocation, "Pickup")

	fuelIdx := 0
	for b.driven < drivingMinutes {
		switch NextRequirement(clock) {
		case RequireRestart34:
			b.restStops = append(b.restStops, RestStop{
				Mile: b.miles(), Time: b.cursor, Location: "Rest Area / Truck Stop", Restart: true,
			})
			b.emit(StatusOffDuty, RestartMinutes, "Rest Area / Truck Stop", "34-hour restart")
		case RequireRest10:
			b.restStops = append(b.restStops, RestStop{
				Mile: b.miles(), Time: b.cursor, Location: "Rest Area / Truck Stop",
			})
			b.emit(StatusSleeper, RestMinutes, "Rest Area / Truck Stop", "10-hour rest")
		case RequireBreak30:
			b.emit(StatusOffDuty, BreakMinutes, "", "30-minute break")
		default:
			// Any fuel stop already reached is serviced before more driving.
			for fuelIdx < len(fuelDue) && b.driven >= fuelDue[fuelIdx] {
				b.fuelStops = append(b.fuelStops, FuelStop{
					Mile: fuelMiles[fuelIdx], Time: b.cursor, Location: "Fuel Stop",
				})
				b.emit(StatusOnDuty, p.opts.FuelStopMinutes, "Fuel Stop", "Fueling")
				fuelIdx++
			}

			// A rest can hand the clock a fresh driving allowance mid-day,
			// but the calendar day still tops out at 11 hours behind the
			// wheel. Once the day's share is spent, wait out the day.
			dayLeft := MaxDailyDrivingMinutes - b.dayDriven
			if dayLeft <= 0 {
				b.idleUntilMidnight("Rest Area / Truck Stop")
				continue
			}

			chunk := DrivableMinutes(clock)
			if dayLeft < chunk {
				chunk = dayLeft
			}
			if rem := drivingMinutes - b.driven; rem < chunk {
				chunk = rem
			}
			if fuelIdx < len(fuelDue) {
				if d := fuelDue[fuelIdx] - b.driven; d < chunk {
					chunk = d
				}
			}
			b.emitDriving(chunk)
		}
	}
	// A fuel stop landing exactly on the final driving minute is still
	// strictly before the destination and must be serviced.
	for fuelIdx < len(fuelDue) {
		b.fuelStops = append(b.fuelStops, FuelStop{
			Mile: fuelMiles[fuelIdx], Time: b.cursor, Location: "Fuel Stop",
		})
		b.emit(StatusOnDuty, p.opts.FuelStopMinutes, "Fuel Stop", "Fueling")
		fuelIdx++
	}

	b.emit(StatusOnDuty, p.opts.DropoffMinutes, params.DropoffLocation, "Dropoff")

	final := clock.State()

	// Pad the last day out to midnight.
	b.emit(StatusOffDuty, int(b.day.Date.AddDate(0, 0, 1).Sub(b.cursor)/time.Minute), params.DropoffLocation, "")
	b.closeDay()

	return &Schedule{
		Days:      b.days,
		FuelStops: b.fuelStops,
		RestStops: b.restStops,
		Final:     final,
		Summary: Summary{
			TotalDrivingHours:   float64(drivingMinutes) / 60,
			CycleHoursUsed:      float64(final.CycleUsed) / 60,
			CycleHoursRemaining: float64(final.CycleRemaining) / 60,
			TripDurationDays:    len(b.days),
		},
	}, nil
}

// tripBuilder accumulates periods for one Build call, splitting them at
// midnight and keeping day totals and the duty clock in step.
type tripBuilder struct {
	clock          *Clock
	cursor         time.Time
	days           []Day
	day            *Day
	driven         int // driving minutes consumed so far
	dayDriven      int // driving minutes in the current calendar day
	milesPerMinute float64
	fuelStops      []FuelStop
	restStops      []RestStop
}

func (b *tripBuilder) miles() float64 {
	return float64(b.driven) * b.milesPerMinute
}

func (b *tripBuilder) openDay() {
	y, m, d := b.cursor.Date()
	b.days = append(b.days, Day{Date: time.Date(y, m, d, 0, 0, 0, 0, b.cursor.Location())})
	b.day = &b.days[len(b.days)-1]
	b.dayDriven = 0
}

// idleUntilMidnight parks the driver off duty through the remainder of the
// current calendar day. When the cursor already sits on midnight it rolls
// the day over directly, since a zero-length emit would not.
func (b *tripBuilder) idleUntilMidnight(location string) {
	dayEnd := b.day.Date.AddDate(0, 0, 1)
	if until := int(dayEnd.Sub(b.cursor) / time.Minute); until > 0 {
		b.emit(StatusOffDuty, until, location, "")
		return
	}
	b.closeDay()
	b.clock.StartDay()
	b.openDay()
}

func (b *tripBuilder) closeDay() {
	b.day.CycleUsed = b.clock.CycleUsed()
}

func (b *tripBuilder) emitDriving(minutes int) {
	b.emit(StatusDriving, minutes, "", "")
}

// emit appends a duty period at the cursor, rolling over day boundaries as
// the period crosses midnight.
func (b *tripBuilder) emit(status DutyStatus, minutes int, location, remarks string) {
	for minutes > 0 {
		dayEnd := b.day.Date.AddDate(0, 0, 1)
		if !b.cursor.Before(dayEnd) {
			b.closeDay()
			b.clock.StartDay()
			b.openDay()
			continue
		}

		chunk := minutes
		if until := int(dayEnd.Sub(b.cursor) / time.Minute); until < chunk {
			chunk = until
		}

		end := b.cursor.Add(time.Duration(chunk) * time.Minute)
		b.day.Periods = append(b.day.Periods, Period{
			Status:       status,
			Start:        b.cursor,
			End:          end,
			Location:     location,
			Remarks:      remarks,
			MilesAtStart: b.miles(),
		})
		b.day.Totals.add(status, chunk)
		b.clock.Advance(status, chunk)
		if status == StatusDriving {
			b.driven += chunk
			b.dayDriven += chunk
		}

		b.cursor = end
		minutes -= chunk
	}
}
