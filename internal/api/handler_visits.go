package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
)

// VisitResponse is the visitor-facing view of an invitation: the booking plus
// enough of the slot to print on a pass.
type VisitResponse struct {
	model.Invitation
	SlotName  string `json:"slotName"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func visitResponse(inv model.Invitation) VisitResponse {
	return VisitResponse{
		Invitation: inv,
		SlotName:   inv.Slot.Name,
		StartTime:  inv.Slot.StartTime,
		EndTime:    inv.Slot.EndTime,
	}
}

// GetVisit handles GET /api/visits/{code}.
func GetVisit(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var inv model.Invitation
		if err := db.Preload("Slot").Where("code = ?", c.Param("code")).First(&inv).Error; err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, visitResponse(inv))
	}
}

func (h *Handler) visitByCode(c *gin.Context) (model.Invitation, bool) {
	var inv model.Invitation
	if err := h.store.DB().Preload("Slot").Where("code = ?", c.Param("code")).First(&inv).Error; err != nil {
		abortWithError(c, err)
		return model.Invitation{}, false
	}
	return inv, true
}

// ConfirmVisit handles POST /api/visits/{code}/confirm. Confirming is what
// makes an invitation count against slot capacity, so the booking counts for
// its date are invalidated. Repeating a transition the visit has already made
// is a no-op; transitions that cannot happen return 409.
func (h *Handler) ConfirmVisit(c *gin.Context) {
	inv, ok := h.visitByCode(c)
	if !ok {
		return
	}
	switch inv.Status {
	case model.InviteStatusConfirmed:
		c.JSON(http.StatusOK, visitResponse(inv))
		return
	case model.InviteStatusCancelled:
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Invitation is cancelled"})
		return
	}

	if err := h.store.DB().Model(&inv).Update("status", model.InviteStatusConfirmed).Error; err != nil {
		abortWithError(c, err)
		return
	}
	h.counts.Invalidate(inv.VisitDate)

	if h.mailer != nil && h.mailer.Enabled() {
		go func(inv model.Invitation) {
			if err := h.mailer.SendConfirmation(inv, inv.Slot); err != nil {
				log.Printf("Error sending confirmation mail for %s: %v", inv.Code, err)
			}
		}(inv)
	}
	c.JSON(http.StatusOK, visitResponse(inv))
}

// CancelVisit handles POST /api/visits/{code}/cancel.
func (h *Handler) CancelVisit(c *gin.Context) {
	inv, ok := h.visitByCode(c)
	if !ok {
		return
	}
	if inv.Status == model.InviteStatusCancelled {
		c.JSON(http.StatusOK, visitResponse(inv))
		return
	}
	if inv.CheckedInAt != nil && inv.CheckedOutAt == nil {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Visitor is currently checked in"})
		return
	}

	wasConfirmed := inv.Status == model.InviteStatusConfirmed
	if err := h.store.DB().Model(&inv).Update("status", model.InviteStatusCancelled).Error; err != nil {
		abortWithError(c, err)
		return
	}
	if wasConfirmed {
		h.counts.Invalidate(inv.VisitDate)
	}
	c.JSON(http.StatusOK, visitResponse(inv))
}

// CheckInVisit handles POST /api/visits/{code}/checkin.
func (h *Handler) CheckInVisit(c *gin.Context) {
	inv, ok := h.visitByCode(c)
	if !ok {
		return
	}
	if inv.Status != model.InviteStatusConfirmed {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Invitation is not confirmed"})
		return
	}
	if inv.CheckedOutAt != nil {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Visit already completed"})
		return
	}
	if inv.CheckedInAt != nil {
		c.JSON(http.StatusOK, visitResponse(inv))
		return
	}

	now := time.Now()
	inv.CheckedInAt = &now
	if err := h.store.DB().Model(&inv).Update("checked_in_at", &now).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, visitResponse(inv))
}

// CheckOutVisit handles POST /api/visits/{code}/checkout.
func (h *Handler) CheckOutVisit(c *gin.Context) {
	inv, ok := h.visitByCode(c)
	if !ok {
		return
	}
	if inv.CheckedInAt == nil {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Visitor has not checked in"})
		return
	}
	if inv.CheckedOutAt != nil {
		c.JSON(http.StatusOK, visitResponse(inv))
		return
	}

	now := time.Now()
	inv.CheckedOutAt = &now
	if err := h.store.DB().Model(&inv).Update("checked_out_at", &now).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, visitResponse(inv))
}
