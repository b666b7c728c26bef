package worker

import (
	"context"
	"errors"
	"github.com/rookgm/paygateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
	"time"
)

type fakePublisher struct {
	mu        sync.Mutex
	failures  int
	delivered []models.PaymentEvent
}

func (fp *fakePublisher) Publish(_ context.Context, event models.PaymentEvent) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	if fp.failures > 0 {
		fp.failures--
		return errors.New("broker unavailable")
	}
	fp.delivered = append(fp.delivered, event)
	return nil
}

func (fp *fakePublisher) count() int {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return len(fp.delivered)
}

func TestEventDispatcher_Run(t *testing.T) {
	pub := &fakePublisher{}
	ed := NewEventDispatcher(pub, 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ed.Run(ctx)
		close(done)
	}()

	require.NoError(t, ed.Publish(context.Background(), models.PaymentEvent{EventID: "e1", OrderNumber: "O1"}))
	require.NoError(t, ed.Publish(context.Background(), models.PaymentEvent{EventID: "e2", OrderNumber: "O2"}))

	assert.Eventually(t, func() bool { return pub.count() == 2 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	assert.Equal(t, "e1", pub.delivered[0].EventID)
	assert.Equal(t, "e2", pub.delivered[1].EventID)
}

func TestEventDispatcher_Redeliver(t *testing.T) {
	pub := &fakePublisher{failures: 1}
	ed := NewEventDispatcher(pub, 4)
	ed.interval = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ed.Run(ctx)
		close(done)
	}()

	require.NoError(t, ed.Publish(context.Background(), models.PaymentEvent{EventID: "e1", OrderNumber: "O1"}))

	assert.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done
	assert.Empty(t, ed.pending)
}

func TestEventDispatcher_PublishQueueFull(t *testing.T) {
	ed := NewEventDispatcher(&fakePublisher{}, 1)

	require.NoError(t, ed.Publish(context.Background(), models.PaymentEvent{EventID: "e1"}))
	assert.ErrorIs(t, ed.Publish(context.Background(), models.PaymentEvent{EventID: "e2"}), ErrQueueFull)
}

func TestEventDispatcher_PublishCanceled(t *testing.T) {
	ed := NewEventDispatcher(&fakePublisher{}, 1)
	require.NoError(t, ed.Publish(context.Background(), models.PaymentEvent{EventID: "e1"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, ed.Publish(ctx, models.PaymentEvent{EventID: "e2"}), context.Canceled)
}

func TestEventDispatcher_DrainOnStop(t *testing.T) {
	ed := NewEventDispatcher(&fakePublisher{}, 2)
	require.NoError(t, ed.Publish(context.Background(), models.PaymentEvent{EventID: "e1"}))

	ed.drain()

	require.Len(t, ed.pending, 1)
	assert.Equal(t, "e1", ed.pending[0].EventID)
}
