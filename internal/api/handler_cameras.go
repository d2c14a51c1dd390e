package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
)

type cameraRequest struct {
	LocationID int64  `json:"locationId" binding:"required"`
	Name       string `json:"name" binding:"required"`
	StreamURL  string `json:"streamUrl"`
	Position   string `json:"position"`
	Enabled    *bool  `json:"enabled"`
}

func (r cameraRequest) toModel() model.Camera {
	camera := model.Camera{
		LocationID: r.LocationID,
		Name:       r.Name,
		StreamURL:  r.StreamURL,
		Position:   r.Position,
		Enabled:    true,
	}
	if r.Enabled != nil {
		camera.Enabled = *r.Enabled
	}
	return camera
}

func locationExists(db *gorm.DB, id int64) (bool, error) {
	var count int64
	err := db.Model(&model.Location{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// GetCameras handles GET /api/locations/{location_id}/cameras.
func GetCameras(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		locationID, err := strconv.ParseInt(c.Param("location_id"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
			return
		}

		exists, err := locationExists(db, locationID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if !exists {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		cameras := make([]model.Camera, 0)
		if err := db.Where("location_id = ?", locationID).Order("id").Find(&cameras).Error; err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, cameras)
	}
}

// GetAllCameras handles GET /api/cameras, the admin view across locations.
func GetAllCameras(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cameras := make([]model.Camera, 0)
		if err := db.Order("location_id, id").Find(&cameras).Error; err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, cameras)
	}
}

// CreateCamera handles POST /api/cameras.
func CreateCamera(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cameraRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		exists, err := locationExists(db, req.LocationID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if !exists {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown location ID"})
			return
		}

		camera := req.toModel()
		if err := db.Create(&camera).Error; err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, camera)
	}
}

// ReplaceCamera handles PUT /api/cameras/{camera_id}.
func ReplaceCamera(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("camera_id"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid camera ID"})
			return
		}

		var req cameraRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var existing model.Camera
		if err := db.First(&existing, id).Error; err != nil {
			abortWithError(c, err)
			return
		}

		exists, err := locationExists(db, req.LocationID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if !exists {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown location ID"})
			return
		}

		camera := req.toModel()
		camera.ID = existing.ID
		camera.CreatedAt = existing.CreatedAt
		if err := db.Save(&camera).Error; err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, camera)
	}
}

// DeleteCamera handles DELETE /api/cameras/{camera_id}.
func DeleteCamera(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("camera_id"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid camera ID"})
			return
		}

		result := db.Delete(&model.Camera{}, id)
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
