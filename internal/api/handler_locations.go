package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
)

// LocationResponse is the list item for GET /api/locations: the location plus
// how much scheduling surface hangs off it.
type LocationResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	ActiveSlots  int64  `json:"activeSlots"`
	TotalCameras int64  `json:"totalCameras"`
}

type locationRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// GetLocations handles GET /api/locations.
func GetLocations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var locations []model.Location
		if err := db.Order("id").Find(&locations).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve locations"})
			return
		}

		type countRow struct {
			LocationID int64
			Total      int64
		}

		var slotCounts []countRow
		if err := db.
			Model(&model.TimeSlot{}).
			Select("location_id AS location_id, COUNT(*) AS total").
			Where("location_id IS NOT NULL AND is_active = ?", true).
			Group("location_id").
			Scan(&slotCounts).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate slots"})
			return
		}

		var cameraCounts []countRow
		if err := db.
			Model(&model.Camera{}).
			Select("location_id AS location_id, COUNT(*) AS total").
			Group("location_id").
			Scan(&cameraCounts).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate cameras"})
			return
		}

		slotsByLocation := make(map[int64]int64, len(slotCounts))
		for _, row := range slotCounts {
			slotsByLocation[row.LocationID] = row.Total
		}
		camerasByLocation := make(map[int64]int64, len(cameraCounts))
		for _, row := range cameraCounts {
			camerasByLocation[row.LocationID] = row.Total
		}

		responses := make([]LocationResponse, 0, len(locations))
		for _, loc := range locations {
			responses = append(responses, LocationResponse{
				ID: loc.ID, Name: loc.Name, Address: loc.Address,
				ActiveSlots:  slotsByLocation[loc.ID],
				TotalCameras: camerasByLocation[loc.ID],
			})
		}
		c.JSON(http.StatusOK, responses)
	}
}

// CreateLocation handles POST /api/locations.
func CreateLocation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req locationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var existing int64
		if err := db.Model(&model.Location{}).Where("name = ?", req.Name).Count(&existing).Error; err != nil {
			abortWithError(c, err)
			return
		}
		if existing > 0 {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "A location with that name already exists"})
			return
		}

		location := model.Location{Name: req.Name, Address: req.Address}
		if err := db.Create(&location).Error; err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, location)
	}
}
