package worker

import (
	"context"
	"errors"
	"github.com/rookgm/paygateway/internal/logger"
	"github.com/rookgm/paygateway/internal/models"
	"go.uber.org/zap"
	"time"
)

// ErrQueueFull is returned when dispatcher cannot accept more events
var ErrQueueFull = errors.New("event queue is full")

// default time between redelivery attempts
const defaultRetryInterval = 5 * time.Second

type Publisher interface {
	Publish(ctx context.Context, event models.PaymentEvent) error
}

// EventDispatcher is worker delivers payment events in background,
// so that callback handling does not wait for the broker
type EventDispatcher struct {
	pub      Publisher
	events   chan models.PaymentEvent
	interval time.Duration
	// events waiting for redelivery
	pending []models.PaymentEvent
}

// NewEventDispatcher creates new event dispatcher
func NewEventDispatcher(pub Publisher, size int) *EventDispatcher {
	if size <= 0 {
		size = 10
	}
	return &EventDispatcher{
		pub:      pub,
		events:   make(chan models.PaymentEvent, size),
		interval: defaultRetryInterval,
	}
}

// Publish queues event for delivery
func (ed *EventDispatcher) Publish(ctx context.Context, event models.PaymentEvent) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case ed.events <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run delivers queued events until ctx is done
func (ed *EventDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(ed.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ed.drain()
			logger.Log.Debug("event dispatcher is done", zap.Int("undelivered", len(ed.pending)))
			return
		case event := <-ed.events:
			ed.deliver(ctx, event)
		case <-ticker.C:
			ed.redeliver(ctx)
		}
	}
}

func (ed *EventDispatcher) deliver(ctx context.Context, event models.PaymentEvent) {
	if err := ed.pub.Publish(ctx, event); err != nil {
		logger.Log.Warn("publish payment event",
			zap.String("event_id", event.EventID),
			zap.String("order", event.OrderNumber),
			zap.Error(err))
		ed.pending = append(ed.pending, event)
	}
}

func (ed *EventDispatcher) redeliver(ctx context.Context) {
	if len(ed.pending) == 0 {
		return
	}
	pending := ed.pending
	ed.pending = nil
	for _, event := range pending {
		ed.deliver(ctx, event)
	}
}

// drain moves events left in queue to pending
func (ed *EventDispatcher) drain() {
	for {
		select {
		case event := <-ed.events:
			ed.pending = append(ed.pending, event)
		default:
			return
		}
	}
}
