package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vinodmerwade/OrgCheck/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_SubscribePublish(t *testing.T) {
	bus := NewEventBus(nil)
	var called bool
	bus.Subscribe(EventTypeRunProgress, func(ctx context.Context, event Event) error {
		called = true
		assert.Equal(t, EventTypeRunProgress, event.Type())
		assert.Equal(t, "Querying FlowDefinition", event.Data())
		assert.Equal(t, "flows", event.Source())
		return nil
	})
	err := bus.Publish(context.Background(), NewBasicEventWithSource(EventTypeRunProgress, "Querying FlowDefinition", "flows"))
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestEventBus_AsyncPublish(t *testing.T) {
	bus := NewEventBusWithConfig(logger.NewNopLogger(), BusConfig{AsyncProcessing: true})
	var count int32
	for i := 0; i < 3; i++ {
		bus.Subscribe("async", func(ctx context.Context, event Event) error {
			atomic.AddInt32(&count, 1)
			return nil
		})
	}
	require.NoError(t, bus.Publish(context.Background(), NewBasicEventWithSource("async", nil, "test")))
	assert.Equal(t, int32(3), atomic.LoadInt32(&count))
}

func TestEventBus_PublishAndForget(t *testing.T) {
	bus := NewEventBus(nil)
	ch := make(chan struct{}, 1)
	bus.Subscribe("fire", func(ctx context.Context, event Event) error {
		ch <- struct{}{}
		return nil
	})
	bus.PublishAndForget(context.Background(), NewBasicEventWithSource("fire", nil, "test"))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestEventBus_UnsubscribeOnlyRemovesOneSubscription(t *testing.T) {
	bus := NewEventBus(nil)
	first := bus.Subscribe("ev", func(ctx context.Context, event Event) error { return nil })
	bus.Subscribe("ev", func(ctx context.Context, event Event) error { return nil })
	assert.Equal(t, 2, bus.GetSubscriberCount("ev"))

	bus.Unsubscribe("ev", first)
	assert.Equal(t, 1, bus.GetSubscriberCount("ev"))

	bus.Unsubscribe("ev", "unknown")
	assert.Equal(t, 1, bus.GetSubscriberCount("ev"))
}

func TestEventBus_HandlerErrorWithRetries(t *testing.T) {
	bus := NewEventBusWithConfig(nil, BusConfig{MaxRetries: 2, RetryDelay: time.Millisecond})
	var attempts int
	bus.Subscribe("err", func(ctx context.Context, event Event) error {
		attempts++
		return errors.New("handler failed")
	})
	err := bus.Publish(context.Background(), NewBasicEventWithSource("err", nil, "test"))
	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestEventBus_NoHandlers(t *testing.T) {
	bus := NewEventBus(nil)
	assert.NoError(t, bus.Publish(context.Background(), NewBasicEventWithSource("nobody", nil, "test")))
}
