package hos

import "time"

// FuelStop marks a refueling point along the route. It is attached to the
// schedule but is not itself part of the duty-status timeline; the dwell
// time it costs shows up as an on-duty period in the schedule.
type FuelStop struct {
	Mile     float64   `json:"mile"`
	Time     time.Time `json:"time"`
	Location string    `json:"location"`
}

// RestStop marks where a mandatory 10-hour rest or 34-hour restart was
// inserted.
type RestStop struct {
	Mile     float64   `json:"mile"`
	Time     time.Time `json:"time"`
	Location string    `json:"location"`
	Restart  bool      `json:"restart"`
}

// PlanFuelStops returns the mile markers where fuel stops are required:
// one every intervalMiles of cumulative distance, strictly before the
// destination. The plan depends only on distance, never on duty state.
func PlanFuelStops(totalMiles, intervalMiles float64) []float64 {
	if intervalMiles <= 0 {
		intervalMiles = 1000
	}
	var miles []float64
	for m := intervalMiles; m < totalMiles; m += intervalMiles {
		miles = append(miles, m)
	}
	return miles
}
