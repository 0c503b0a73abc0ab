package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"routelogix-backend/internal/hos"
	"routelogix-backend/internal/store"
)

type createTripRequest struct {
	CurrentLocation       string    `json:"current_location" binding:"required"`
	PickupLocation        string    `json:"pickup_location" binding:"required"`
	DropoffLocation       string    `json:"dropoff_location" binding:"required"`
	TotalDistanceMiles    float64   `json:"total_distance_miles"`
	EstimatedDrivingHours float64   `json:"estimated_driving_hours"`
	CycleType             string    `json:"cycle_type" binding:"required"`
	PlannedStartTime      time.Time `json:"planned_start_time"`
}

// PostTrip plans a new trip: it builds the HOS-compliant schedule, runs
// violation detection over it and persists the whole plan.
func (h *Handler) PostTrip(c *gin.Context) {
	var req createTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := req.PlannedStartTime
	if start.IsZero() {
		start = time.Now().UTC().Truncate(time.Minute)
	}

	params := hos.TripParams{
		CurrentLocation: req.CurrentLocation,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		Cycle:           hos.CycleType(req.CycleType),
		DistanceMiles:   req.TotalDistanceMiles,
		DrivingHours:    req.EstimatedDrivingHours,
		Start:           start,
	}

	schedule, err := h.planner.Build(params)
	if err != nil {
		var cfgErr *hos.ConfigurationError
		if errors.As(err, &cfgErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	violations := hos.Check(schedule.Days, params.Cycle)
	trip := store.NewTripRecord(params, schedule, violations)
	if err := h.store.SaveTripPlan(c.Request.Context(), trip); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// GetTrips lists all trips without their schedules.
func (h *Handler) GetTrips(c *gin.Context) {
	trips, err := h.store.ListTrips(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GetTrip returns one trip with its daily logs, route stops and violations.
func (h *Handler) GetTrip(c *gin.Context) {
	trip, err := h.store.GetTrip(c.Request.Context(), c.Param("trip_id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, trip)
}

// GetTripViolations returns the stored violations for a trip.
func (h *Handler) GetTripViolations(c *gin.Context) {
	tripID := c.Param("trip_id")
	if _, err := h.store.GetTrip(c.Request.Context(), tripID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	rows, err := h.store.TripViolations(c.Request.Context(), tripID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}
