package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// alertPayload is the JSON body delivered to the browser.
type alertPayload struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Severity string `json:"severity"`
	AlertID  int64  `json:"alertId"`
}

// WorkerPool fans escalation alerts out to push subscribers. Jobs carry the
// alert id; each worker loads the alert and resolves its audience.
type WorkerPool struct {
	size    int
	jobs    chan int64
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size), // Buffered channel
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case alertID := <-wp.jobs:
			log.Printf("Worker %d processing alert %d", id, alertID)
			wp.sendAlertNotifications(ctx, alertID)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a job to the worker pool.
func (wp *WorkerPool) Dispatch(alertID int64) {
	wp.jobs <- alertID
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan int64 {
	return wp.jobs
}

// sendAlertNotifications resolves the alert's audience and delivers the push
// messages. Location-scoped alerts go to that location's subscribers; alerts
// without a location go to everyone.
func (wp *WorkerPool) sendAlertNotifications(ctx context.Context, alertID int64) {
	var alert model.EscalationAlert
	if err := wp.db.WithContext(ctx).First(&alert, alertID).Error; err != nil {
		log.Printf("Error fetching alert %d: %v", alertID, err)
		return
	}

	var subscriptions []model.PushSubscription
	query := wp.db.WithContext(ctx)
	if alert.LocationID != nil {
		query = query.
			Joins("JOIN subscription_location_mapping slm ON slm.push_subscription_endpoint = push_subscriptions.endpoint").
			Where("slm.location_id = ?", *alert.LocationID)
	}
	if err := query.Find(&subscriptions).Error; err != nil {
		log.Printf("Error fetching subscriptions for alert %d: %v", alertID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for alert %d", len(subscriptions), alertID)

	title := "Visitor alert"
	if alert.LocationID != nil {
		label := fmt.Sprintf("location %d", *alert.LocationID)
		var location model.Location
		if err := wp.db.WithContext(ctx).
			Select("name").
			First(&location, *alert.LocationID).Error; err != nil {
			log.Printf("Error fetching location %d: %v", *alert.LocationID, err)
		} else if location.Name != "" {
			label = location.Name
		}
		title = fmt.Sprintf("Visitor alert at %s", label)
	}

	payload, err := json.Marshal(alertPayload{
		Title:    title,
		Body:     alert.Message,
		Severity: alert.Severity,
		AlertID:  alert.ID,
	})
	if err != nil {
		log.Printf("Error encoding payload for alert %d: %v", alertID, err)
		return
	}

	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	// Manually construct the webpush.Subscription object
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == 410 {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
