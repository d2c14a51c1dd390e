package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
)

type putSubscriptionRequest struct {
	Endpoint            string  `json:"endpoint" binding:"required"`
	P256DH              string  `json:"p256dh" binding:"required"`
	Auth                string  `json:"auth" binding:"required"`
	SubscribedLocations []int64 `json:"subscribed_locations"`
}

var errUnknownLocation = errors.New("unknown location id")

// PutSubscription handles the creation or replacement of a subscription.
// The location list replaces whatever the endpoint was subscribed to before;
// an empty list turns the subscription into a global one.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subscription := model.PushSubscription{
		Endpoint: req.Endpoint,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
	}

	unique := make(map[int64]struct{}, len(req.SubscribedLocations))
	for _, id := range req.SubscribedLocations {
		unique[id] = struct{}{}
	}

	err := h.store.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&subscription).Error; err != nil {
			return err
		}

		var locations []*model.Location
		if len(req.SubscribedLocations) > 0 {
			if err := tx.Find(&locations, req.SubscribedLocations).Error; err != nil {
				return err
			}
			if len(locations) != len(unique) {
				return errUnknownLocation
			}
		}

		return tx.Model(&subscription).Association("Locations").Replace(&locations)
	})

	if err != nil {
		if errors.Is(err, errUnknownLocation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown location ID"})
			return
		}
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription handles the deletion of a subscription.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.DB().Select(clause.Associations).Delete(&model.PushSubscription{Endpoint: req.Endpoint}).Error; err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// rawQueryParam pulls a query value without URL-decoding it. Push endpoints
// must match the stored bytes exactly, and c.Query would decode %2B and
// friends on the way through.
func rawQueryParam(rawQuery, key string) (string, bool) {
	for _, kv := range strings.Split(rawQuery, "&") {
		if strings.HasPrefix(kv, key+"=") {
			return kv[len(key)+1:], true
		}
	}
	return "", false
}

// GetSubscription handles the retrieval of a subscription.
func (h *Handler) GetSubscription(c *gin.Context) {
	raw, ok := rawQueryParam(c.Request.URL.RawQuery, "endpoint")
	if !ok || raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint is required"})
		return
	}

	var subscription model.PushSubscription
	if err := h.store.DB().Preload("Locations").First(&subscription, "endpoint = ?", raw).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		} else {
			abortWithError(c, err)
		}
		return
	}

	locationIDs := make([]int64, len(subscription.Locations))
	for i, location := range subscription.Locations {
		locationIDs[i] = location.ID
	}

	c.JSON(http.StatusOK, gin.H{"subscribed_locations": locationIDs})
}

// GetVAPIDPublicKey returns the VAPID public key browsers need to subscribe.
func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	if h.webpush == nil || h.webpush.VAPIDPublicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "vapid keys are not configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"public_key": h.webpush.VAPIDPublicKey})
}
