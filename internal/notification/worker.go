package notification

import (
	"context"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"

	"party-status-backend/internal/metrics"
	"party-status-backend/internal/model"
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

// WorkerPool fans slot changes out to subscribed devices.
type WorkerPool struct {
	size     int
	jobs     chan model.SlotChange
	registry *Registry
	webpush  *webpush.Options
	sender   NotificationSender
	log      zerolog.Logger
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, registry *Registry, webpushOptions *webpush.Options, logger zerolog.Logger) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:     size,
		jobs:     make(chan model.SlotChange, len(model.Sections)*size),
		registry: registry,
		webpush:  webpushOptions,
		sender:   &WebPushSender{},
		log:      logger.With().Str("component", "notification").Logger(),
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.log.Debug().Int("worker", id).Msg("worker started")
	for {
		select {
		case change := <-wp.jobs:
			wp.sendForChange(ctx, change)
		case <-ctx.Done():
			wp.log.Debug().Int("worker", id).Msg("worker shutting down")
			return
		}
	}
}

// Dispatch queues a slot change. A full queue drops the change rather than
// stalling the board loop.
func (wp *WorkerPool) Dispatch(change model.SlotChange) {
	select {
	case wp.jobs <- change:
	default:
		metrics.IncPush("dropped")
		wp.log.Warn().Str("section", string(change.Section)).Msg("notification queue full, dropping change")
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan model.SlotChange {
	return wp.jobs
}

func (wp *WorkerPool) sendForChange(ctx context.Context, change model.SlotChange) {
	subs := wp.registry.Watching(change.Section)
	if len(subs) == 0 {
		return
	}

	wp.log.Info().Int("subscriptions", len(subs)).Str("section", string(change.Section)).Msg("sending notifications")
	payload := []byte(change.Message())
	for _, sub := range subs {
		if ctx.Err() != nil {
			return
		}
		wp.sendNotification(sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		metrics.IncPush("error")
		wp.log.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("sending notification failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		metrics.IncPush("expired")
		wp.log.Info().Str("endpoint", sub.Endpoint).Msg("subscription expired, removing")
		wp.registry.Delete(sub.Endpoint)
		return
	}
	metrics.IncPush("ok")
}
