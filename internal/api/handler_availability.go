package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/schedule"
)

// slotAvailability couples a slot with its computed capacity snapshot for
// one calendar date.
type slotAvailability struct {
	model.TimeSlot
	schedule.Snapshot
	startMinutes int
}

func (s slotAvailability) StartMinutes() int { return s.startMinutes }

// GetAvailability handles GET /api/availability?date=YYYY-MM-DD. It returns
// every slot applicable on that date with its remaining capacity,
// utilization and status, ordered by start time.
func (h *Handler) GetAvailability(c *gin.Context) {
	dateParam := c.Query("date")
	if dateParam == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD."})
		return
	}

	slots, err := h.store.ApplicableSlots(c.Request.Context(), date)
	if err != nil {
		abortWithError(c, err)
		return
	}

	counts, err := h.counts.Counts(c.Request.Context(), dateParam)
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]slotAvailability, 0, len(slots))
	for _, slot := range slots {
		startMinutes := 0
		if start, perr := schedule.ParseTimeOfDay(slot.StartTime); perr == nil {
			startMinutes = start.Minutes()
		}
		response = append(response, slotAvailability{
			TimeSlot:     slot,
			Snapshot:     schedule.Availability(slot.MaxVisitors, counts[schedule.BookingKey(slot.ID, date)]),
			startMinutes: startMinutes,
		})
	}
	schedule.SortByStart(response)

	c.JSON(http.StatusOK, response)
}
