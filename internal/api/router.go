package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/ahamdan1990/vms-frontend-sub004/config"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/mail"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/mw"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, counts *store.BookingCountCache, mailer *mail.Mailer) *gin.Engine {
	r := gin.Default()

	// The rate limiter keys on client IP, so honor the proxy header when one
	// is configured.
	if cfg.Server.RequestIPHeader != "" {
		r.TrustedPlatform = cfg.Server.RequestIPHeader
	}

	db := s.DB()

	webpushOptions := &webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}
	handler := NewHandler(s, counts, mailer, webpushOptions)

	// Initialize middleware
	perSecond := cfg.Server.RateLimitPerSec
	if perSecond <= 0 {
		perSecond = 10
	}
	burst := int(perSecond)
	if burst < 5 {
		burst = 5
	}
	rateLimiter := mw.RateLimiter(rate.Limit(perSecond), burst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Time slots
		api.GET("/slots", handler.ListSlots)
		api.POST("/slots", handler.CreateSlot)
		api.GET("/slots/:slot_id", handler.GetSlot)
		api.PUT("/slots/:slot_id", handler.ReplaceSlot)
		api.DELETE("/slots/:slot_id", handler.DeactivateSlot)

		// Day availability view
		api.GET("/availability", handler.GetAvailability)

		// Escalation rules
		api.GET("/escalation-rules", GetRules(db))
		api.POST("/escalation-rules", handler.CreateRule)
		api.GET("/escalation-rules/:rule_id", GetRule(db))
		api.PUT("/escalation-rules/:rule_id", handler.ReplaceRule)
		api.DELETE("/escalation-rules/:rule_id", DeleteRule(db))

		// Locations and their cameras
		api.GET("/locations", caching, GetLocations(db))
		api.POST("/locations", CreateLocation(db))
		api.GET("/locations/:location_id/cameras", GetCameras(db))
		api.GET("/cameras", GetAllCameras(db))
		api.POST("/cameras", CreateCamera(db))
		api.PUT("/cameras/:camera_id", ReplaceCamera(db))
		api.DELETE("/cameras/:camera_id", DeleteCamera(db))

		// Invitations (admin collection)
		api.GET("/invitations", ListInvitations(db))
		api.POST("/invitations", handler.CreateInvitation)
		api.POST("/invitations/import", handler.ImportInvitations)
		api.GET("/invitations/export", handler.ExportInvitations)

		// Visit lifecycle, addressed by invitation code
		api.GET("/visits/:code", GetVisit(db))
		api.POST("/visits/:code/confirm", handler.ConfirmVisit)
		api.POST("/visits/:code/cancel", handler.CancelVisit)
		api.POST("/visits/:code/checkin", handler.CheckInVisit)
		api.POST("/visits/:code/checkout", handler.CheckOutVisit)

		// Escalation alerts
		api.GET("/alerts", GetAlerts(db))
		api.POST("/alerts/:alert_id/ack", AcknowledgeAlert(db))

		// Push subscriptions
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
