package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/store"
)

// slotRequest is the payload for creating or replacing a slot. Replacement
// is whole-record: every stored field is taken from the request body.
type slotRequest struct {
	Name          string `json:"name" binding:"required"`
	StartTime     string `json:"startTime" binding:"required"`
	EndTime       string `json:"endTime" binding:"required"`
	MaxVisitors   int    `json:"maxVisitors" binding:"required"`
	ActiveDays    string `json:"activeDays" binding:"required"`
	BufferMinutes int    `json:"bufferMinutes"`
	LocationID    *int64 `json:"locationId"`
	IsActive      *bool  `json:"isActive"`
}

func (r slotRequest) toModel() model.TimeSlot {
	slot := model.TimeSlot{
		Name:          r.Name,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		MaxVisitors:   r.MaxVisitors,
		ActiveDays:    r.ActiveDays,
		BufferMinutes: r.BufferMinutes,
		LocationID:    r.LocationID,
		IsActive:      true,
	}
	if r.IsActive != nil {
		slot.IsActive = *r.IsActive
	}
	return slot
}

// ListSlots handles GET /api/slots. Inactive slots are hidden unless
// include_inactive=true is passed.
func (h *Handler) ListSlots(c *gin.Context) {
	query := h.store.DB().Order("start_time, id")
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	slots := make([]model.TimeSlot, 0)
	if err := query.Find(&slots).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// GetSlot handles GET /api/slots/{slot_id}.
func (h *Handler) GetSlot(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("slot_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}

	var slot model.TimeSlot
	if err := h.store.DB().First(&slot, id).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// CreateSlot handles POST /api/slots.
func (h *Handler) CreateSlot(c *gin.Context) {
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot := req.toModel()
	if err := store.ValidateSlot(&slot); err != nil {
		abortWithError(c, err)
		return
	}

	if err := h.store.DB().Create(&slot).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// ReplaceSlot handles PUT /api/slots/{slot_id}. The stored record is
// replaced wholesale; there is no partial update.
func (h *Handler) ReplaceSlot(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("slot_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}

	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing model.TimeSlot
	if err := h.store.DB().First(&existing, id).Error; err != nil {
		abortWithError(c, err)
		return
	}

	slot := req.toModel()
	slot.ID = existing.ID
	slot.CreatedAt = existing.CreatedAt
	if err := store.ValidateSlot(&slot); err != nil {
		abortWithError(c, err)
		return
	}

	if err := h.store.DB().Save(&slot).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// DeactivateSlot handles DELETE /api/slots/{slot_id}. Slots are deactivated
// rather than removed so historical invitations keep a valid reference.
func (h *Handler) DeactivateSlot(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("slot_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}

	result := h.store.DB().Model(&model.TimeSlot{}).Where("id = ?", id).Update("is_active", false)
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
