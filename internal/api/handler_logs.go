package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"routelogix-backend/internal/hos"
	"routelogix-backend/internal/model"
	"routelogix-backend/internal/parse"
	"routelogix-backend/internal/store"
)

// GetLogGrid renders one daily log as a 96-slot ELD grid.
func (h *Handler) GetLogGrid(c *gin.Context) {
	dl, err := h.store.GetDailyLog(c.Request.Context(), c.Param("log_id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "daily log not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	days := store.DaysFromLogs([]model.DailyLog{*dl})
	grid := hos.RenderGrid(days[0])

	c.JSON(http.StatusOK, gin.H{
		"log_id":   dl.ID,
		"trip_id":  dl.TripID,
		"log_date": dl.LogDate.Format("2006-01-02"),
		"slots":    grid.Slots,
		"totals":   grid.Totals,
	})
}

type createLogEntryRequest struct {
	Status    string `json:"status" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Location  string `json:"location"`
	Remarks   string `json:"remarks"`
}

// PostLogEntry appends a manual duty-status entry to a daily log,
// re-runs violation detection for the owning trip and returns the
// updated log together with the fresh findings.
func (h *Handler) PostLogEntry(c *gin.Context) {
	var req createLogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := hos.DutyStatus(req.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown duty status: " + req.Status})
		return
	}

	startClock, err := parse.ParseClock(req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	endClock, err := parse.ParseClock(req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if endClock.MinuteOfDay() <= startClock.MinuteOfDay() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be after start_time"})
		return
	}

	dl, err := h.store.GetDailyLog(c.Request.Context(), c.Param("log_id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "daily log not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	day := dl.LogDate
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	entry := &model.LogEntry{
		ID:              uuid.NewString(),
		Status:          string(status),
		StartTime:       midnight.Add(time.Duration(startClock.MinuteOfDay()) * time.Minute),
		EndTime:         midnight.Add(time.Duration(endClock.MinuteOfDay()) * time.Minute),
		DurationMinutes: endClock.MinuteOfDay() - startClock.MinuteOfDay(),
		Location:        req.Location,
		Remarks:         req.Remarks,
	}

	updated, err := h.store.AppendLogEntry(c.Request.Context(), dl.ID, entry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Re-check the whole trip right away so the response reflects the
	// edit; the background auditor would otherwise pick it up later.
	trip, err := h.store.GetTrip(c.Request.Context(), updated.TripID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	rows, err := h.auditor.AuditTrip(c.Request.Context(), trip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.ClearAuditFlag(c.Request.Context(), trip.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.auditor.Pool().Dispatch(trip.ID)

	c.JSON(http.StatusCreated, gin.H{
		"entry":      entry,
		"daily_log":  updated,
		"violations": rows,
	})
}
