package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/store"
)

// ruleRequest is the payload for creating or replacing an escalation rule.
type ruleRequest struct {
	Name             string  `json:"name" binding:"required"`
	TriggerType      string  `json:"triggerType" binding:"required"`
	ThresholdMinutes int     `json:"thresholdMinutes"`
	ThresholdRatio   float64 `json:"thresholdRatio"`
	Severity         string  `json:"severity" binding:"required"`
	ActiveDays       string  `json:"activeDays"`
	StartTime        string  `json:"startTime"`
	EndTime          string  `json:"endTime"`
	LocationID       *int64  `json:"locationId"`
	NotifyByPush     *bool   `json:"notifyByPush"`
	Enabled          *bool   `json:"enabled"`
}

func (r ruleRequest) toModel() model.EscalationRule {
	rule := model.EscalationRule{
		Name:             r.Name,
		TriggerType:      r.TriggerType,
		ThresholdMinutes: r.ThresholdMinutes,
		ThresholdRatio:   r.ThresholdRatio,
		Severity:         r.Severity,
		ActiveDays:       r.ActiveDays,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		LocationID:       r.LocationID,
		NotifyByPush:     true,
		Enabled:          true,
	}
	if r.NotifyByPush != nil {
		rule.NotifyByPush = *r.NotifyByPush
	}
	if r.Enabled != nil {
		rule.Enabled = *r.Enabled
	}
	return rule
}

// GetRules handles GET /api/escalation-rules. Pass enabled=true to hide
// disabled rules.
func GetRules(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Order("id")
		if c.Query("enabled") == "true" {
			query = query.Where("enabled = ?", true)
		}

		rules := make([]model.EscalationRule, 0)
		if err := query.Find(&rules).Error; err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, rules)
	}
}

// GetRule handles GET /api/escalation-rules/{rule_id}.
func GetRule(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("rule_id"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid rule ID"})
			return
		}

		var rule model.EscalationRule
		if err := db.First(&rule, id).Error; err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, rule)
	}
}

// CreateRule handles POST /api/escalation-rules.
func (h *Handler) CreateRule(c *gin.Context) {
	var req ruleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule := req.toModel()
	if err := store.ValidateRule(&rule); err != nil {
		abortWithError(c, err)
		return
	}

	if err := h.store.DB().Create(&rule).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// ReplaceRule handles PUT /api/escalation-rules/{rule_id}. Like slots, rules
// are replaced wholesale.
func (h *Handler) ReplaceRule(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("rule_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid rule ID"})
		return
	}

	var req ruleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing model.EscalationRule
	if err := h.store.DB().First(&existing, id).Error; err != nil {
		abortWithError(c, err)
		return
	}

	rule := req.toModel()
	rule.ID = existing.ID
	rule.CreatedAt = existing.CreatedAt
	if err := store.ValidateRule(&rule); err != nil {
		abortWithError(c, err)
		return
	}

	if err := h.store.DB().Save(&rule).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

// DeleteRule handles DELETE /api/escalation-rules/{rule_id}. Rules are removed
// outright; alerts they already raised keep their rule ID for history.
func DeleteRule(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("rule_id"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid rule ID"})
			return
		}

		result := db.Delete(&model.EscalationRule{}, id)
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
