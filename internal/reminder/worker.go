package reminder

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"maintplan-backend/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Job asks the pool to remind a facility's subscribers about its overdue
// maintenance occurrences.
type Job struct {
	FacilityID   int64
	FacilityName string
	OverdueCount int
}

// WorkerPool fans reminder jobs out to a fixed set of workers.
type WorkerPool struct {
	size    int
	jobs    chan Job
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Reminder worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			wp.remindFacility(ctx, job)
		case <-ctx.Done():
			log.Printf("Reminder worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a job to the worker pool.
func (wp *WorkerPool) Dispatch(job Job) {
	wp.jobs <- job
}

// remindFacility fetches the facility's subscribers and pushes one reminder
// to each.
func (wp *WorkerPool) remindFacility(ctx context.Context, job Job) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_facility_mapping sfm ON sfm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("sfm.facility_id = ?", job.FacilityID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for facility %d: %v", job.FacilityID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	label := job.FacilityName
	if label == "" {
		label = fmt.Sprintf("facility %d", job.FacilityID)
	}

	message := fmt.Sprintf("%d maintenance task(s) overdue at %s", job.OverdueCount, label)
	log.Printf("Sending %d reminders for facility %d", len(subscriptions), job.FacilityID)
	for _, sub := range subscriptions {
		wp.sendReminder(ctx, sub, []byte(message))
	}
}

// sendReminder pushes a single reminder and drops the subscription when the
// push service reports it gone.
func (wp *WorkerPool) sendReminder(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending reminder to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
