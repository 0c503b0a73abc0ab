package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"routelogix-backend/internal/model"
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

// alertPayload is the JSON body delivered to subscribed clients when a
// trip's compliance state changes.
type alertPayload struct {
	TripID     string `json:"trip_id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Violations int    `json:"violations"`
}

// WorkerPool manages a pool of workers for sending compliance alerts.
type WorkerPool struct {
	size    int
	jobs    chan string
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size), // Buffered channel
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
		case tripID := <-wp.jobs:
			log.Printf("Worker %d processing trip %s", id, tripID)
			wp.sendAlertsForTrip(ctx, tripID)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a job to the worker pool.
func (wp *WorkerPool) Dispatch(tripID string) {
	wp.jobs <- tripID
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan string {
	return wp.jobs
}

// sendAlertsForTrip fetches subscriptions watching the trip and pushes a
// summary of its current violations to each.
func (wp *WorkerPool) sendAlertsForTrip(ctx context.Context, tripID string) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_trip_mapping stm ON stm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("stm.trip_id = ?", tripID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for trip %s: %v", tripID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	var count int64
	if err := wp.db.WithContext(ctx).Model(&model.HOSViolation{}).
		Where("trip_id = ?", tripID).Count(&count).Error; err != nil {
		log.Printf("Error counting violations for trip %s: %v", tripID, err)
		return
	}

	var trip model.Trip
	routeLabel := tripID
	if err := wp.db.WithContext(ctx).
		Select("pickup_location", "dropoff_location").
		First(&trip, "id = ?", tripID).Error; err != nil {
		log.Printf("Error fetching trip %s: %v", tripID, err)
	} else if trip.PickupLocation != "" {
		routeLabel = fmt.Sprintf("%s to %s", trip.PickupLocation, trip.DropoffLocation)
	}

	body := fmt.Sprintf("Trip %s is compliant again.", routeLabel)
	if count > 0 {
		body = fmt.Sprintf("Trip %s has %d HOS violation(s).", routeLabel, count)
	}
	payload, err := json.Marshal(alertPayload{
		TripID:     tripID,
		Title:      "HOS compliance alert",
		Body:       body,
		Violations: int(count),
	})
	if err != nil {
		log.Printf("Error encoding alert for trip %s: %v", tripID, err)
		return
	}

	log.Printf("Sending %d alerts for trip %s", len(subscriptions), tripID)
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
