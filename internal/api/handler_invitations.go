package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/invite"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/schedule"
)

type invitationRequest struct {
	VisitorName  string `json:"visitorName" binding:"required"`
	VisitorEmail string `json:"visitorEmail" binding:"required"`
	SlotID       int64  `json:"slotId" binding:"required"`
	VisitDate    string `json:"visitDate" binding:"required"`
}

// ListInvitations handles GET /api/invitations with optional date, slot_id
// and status filters.
func ListInvitations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Order("visit_date, slot_id, id")

		if date := c.Query("date"); date != "" {
			if _, err := time.Parse("2006-01-02", date); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD."})
				return
			}
			query = query.Where("visit_date = ?", date)
		}
		if raw := c.Query("slot_id"); raw != "" {
			slotID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
				return
			}
			query = query.Where("slot_id = ?", slotID)
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		invitations := make([]model.Invitation, 0)
		if err := query.Find(&invitations).Error; err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, invitations)
	}
}

// CreateInvitation handles POST /api/invitations. API-created invitations
// start out pending and only count against capacity once confirmed.
func (h *Handler) CreateInvitation(c *gin.Context) {
	var req invitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day, err := time.Parse("2006-01-02", req.VisitDate)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD."})
		return
	}
	if !strings.Contains(req.VisitorEmail, "@") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid visitor email"})
		return
	}

	var slot model.TimeSlot
	if err := h.store.DB().First(&slot, req.SlotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown slot ID"})
			return
		}
		abortWithError(c, err)
		return
	}
	if !schedule.Applicable(slot.IsActive, slot.ActiveDays, day) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Slot %q does not run on %s", slot.Name, req.VisitDate)})
		return
	}

	invitation := model.Invitation{
		Code:         uuid.NewString(),
		VisitorName:  req.VisitorName,
		VisitorEmail: req.VisitorEmail,
		SlotID:       slot.ID,
		VisitDate:    req.VisitDate,
		Status:       model.InviteStatusPending,
	}
	if err := h.store.DB().Create(&invitation).Error; err != nil {
		abortWithError(c, err)
		return
	}

	if h.mailer != nil && h.mailer.Enabled() {
		go func(inv model.Invitation, slot model.TimeSlot) {
			if err := h.mailer.SendInvitation(inv, slot); err != nil {
				log.Printf("Error sending invitation mail for %s: %v", inv.Code, err)
			}
		}(invitation, slot)
	}
	c.JSON(http.StatusCreated, invitation)
}

// ImportInvitations handles POST /api/invitations/import. The workbook is
// uploaded as a multipart "file" field.
func (h *Handler) ImportInvitations(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing file upload"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer func() { _ = file.Close() }()

	result, err := invite.NewImporter(h.store, h.counts).Import(c.Request.Context(), file)
	if err != nil {
		if errors.Is(err, invite.ErrBadWorkbook) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportInvitations handles GET /api/invitations/export. The response is an
// xlsx workbook with one sheet per visit date; date and status filters match
// the list endpoint.
func (h *Handler) ExportInvitations(c *gin.Context) {
	query := h.store.DB().Preload("Slot").Order("visit_date, slot_id, id")

	filename := "invitations.xlsx"
	if date := c.Query("date"); date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD."})
			return
		}
		query = query.Where("visit_date = ?", date)
		filename = "invitations-" + date + ".xlsx"
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var invitations []model.Invitation
	if err := query.Find(&invitations).Error; err != nil {
		abortWithError(c, err)
		return
	}

	book, err := invite.BuildWorkbook(invitations)
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer func() { _ = book.Close() }()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := book.Write(c.Writer); err != nil {
		log.Printf("Error writing invitation export: %v", err)
	}
}
