package bus

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	var got []any
	_, err := b.Subscribe("entity.spawned", func(e Event) error {
		got = append(got, e.Data())
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(NewEvent("entity.spawned", "tester", 1)))
	require.NoError(t, b.Publish(NewEvent("entity.patched", "tester", 2)))

	assert.Equal(t, []any{1}, got)
}

func TestDeliveryOrderAndWildcard(t *testing.T) {
	b := New()
	var order []string
	_, _ = b.Subscribe(Wildcard, func(e Event) error { order = append(order, "all:"+e.Type()); return nil })
	_, _ = b.Subscribe("x", func(Event) error { order = append(order, "first"); return nil })
	_, _ = b.Subscribe("x", func(Event) error { order = append(order, "second"); return nil })

	require.NoError(t, b.Publish(NewEvent("x", "src", nil)))
	assert.Equal(t, []string{"first", "second", "all:x"}, order)
}

func TestPublishJoinsErrors(t *testing.T) {
	b := New()
	e1, e2 := errors.New("one"), errors.New("two")
	_, _ = b.Subscribe("x", func(Event) error { return e1 })
	_, _ = b.Subscribe("x", func(Event) error { return e2 })

	err := b.Publish(NewEvent("x", "src", nil))
	assert.ErrorIs(t, err, e1)
	assert.ErrorIs(t, err, e2)
	assert.Equal(t, uint64(1), b.Metrics().Errors)
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	calls := 0
	sub, err := b.Subscribe("x", func(Event) error { calls++; return nil })
	require.NoError(t, err)
	assert.Equal(t, uint64(1), b.Metrics().SubscribersActive)

	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, sub.Cancel())
	require.NoError(t, b.Unsubscribe(nil))
	assert.False(t, sub.IsActive())

	require.NoError(t, b.Publish(NewEvent("x", "src", nil)))
	assert.Equal(t, 0, calls)
	m := b.Metrics()
	assert.Equal(t, uint64(0), m.SubscribersActive)
	assert.Equal(t, uint64(1), m.Published)
}

func TestPublishConcurrentWithCancel(t *testing.T) {
	b := New()
	var calls atomic.Int64
	subs := make([]Subscription, 32)
	for i := range subs {
		sub, err := b.Subscribe("x", func(Event) error { calls.Add(1); return nil })
		require.NoError(t, err)
		subs[i] = sub
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = b.Publish(NewEvent("x", "src", j))
			}
		}()
	}
	for _, sub := range subs {
		wg.Add(1)
		go func(sub Subscription) {
			defer wg.Done()
			_ = sub.Cancel()
			_ = sub.IsActive()
		}(sub)
	}
	wg.Wait()

	before := calls.Load()
	require.NoError(t, b.Publish(NewEvent("x", "src", nil)))
	assert.Equal(t, before, calls.Load(), "cancelled subscriptions receive nothing")
	assert.Equal(t, uint64(400+1), b.Metrics().Published)
}

func TestSubscribeNilHandler(t *testing.T) {
	_, err := New().Subscribe("x", nil)
	assert.Error(t, err)
}
