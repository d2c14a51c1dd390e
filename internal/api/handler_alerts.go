package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
)

// GetAlerts handles GET /api/alerts, newest first. acknowledged=false narrows
// to open alerts, location_id to one site.
func GetAlerts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Order("triggered_at DESC, id DESC")

		if raw := c.Query("acknowledged"); raw != "" {
			acknowledged, err := strconv.ParseBool(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid acknowledged flag"})
				return
			}
			query = query.Where("acknowledged = ?", acknowledged)
		}
		if raw := c.Query("location_id"); raw != "" {
			locationID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
				return
			}
			query = query.Where("location_id = ?", locationID)
		}

		alerts := make([]model.EscalationAlert, 0)
		if err := query.Find(&alerts).Error; err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, alerts)
	}
}

// AcknowledgeAlert handles POST /api/alerts/{alert_id}/ack. Acknowledging
// releases the dedupe hold, so a condition that persists will alert again on
// a later sweep.
func AcknowledgeAlert(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("alert_id"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid alert ID"})
			return
		}

		result := db.Model(&model.EscalationAlert{}).Where("id = ?", id).Update("acknowledged", true)
		if result.Error != nil {
			abortWithError(c, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
