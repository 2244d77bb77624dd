package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type registered struct {
	UID   string
	Route string
}

func receive[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case evt, ok := <-ch:
		require.True(t, ok, "channel closed")
		return evt
	case <-time.After(time.Second):
		require.FailNow(t, "timed out waiting for event")
		return Event[T]{}
	}
}

func TestBroker_FanOut(t *testing.T) {
	b := NewBroker[registered]()
	defer b.Close()

	a := b.Subscribe(context.Background())
	c := b.Subscribe(context.Background())
	require.Equal(t, 2, b.SubscriberCount())

	b.Publish(RegisteredEvent, registered{UID: "u1", Route: "/doctor"})

	for _, ch := range []<-chan Event[registered]{a, c} {
		evt := receive(t, ch)
		require.Equal(t, RegisteredEvent, evt.Type)
		require.Equal(t, "u1", evt.Payload.UID)
		require.False(t, evt.Timestamp.IsZero())
	}
}

func TestBroker_UnsubscribeOnCancel(t *testing.T) {
	b := NewBroker[string]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool { return b.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-ch
	require.False(t, ok)
}

func TestBroker_FullSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := NewBrokerWithBuffer[int](1)
	defer b.Close()
	ch := b.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		for i := range 3 {
			b.Publish(CreatedEvent, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "Publish blocked")
	}

	require.Equal(t, 0, receive(t, ch).Payload)
	require.Equal(t, int64(2), b.Dropped())
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker[string]()
	ch := b.Subscribe(context.Background())

	b.Close()
	b.Close()

	_, ok := <-ch
	require.False(t, ok)
	require.Zero(t, b.SubscriberCount())

	late := b.Subscribe(context.Background())
	_, ok = <-late
	require.False(t, ok)

	b.Publish(CreatedEvent, "ignored")
}

func TestListener(t *testing.T) {
	b := NewBroker[string]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	l := NewContinuousListener[string](ctx, b)

	b.Publish(CreatedEvent, "first")
	msg := l.Listen()()
	evt, ok := msg.(Event[string])
	require.True(t, ok)
	require.Equal(t, "first", evt.Payload)

	cancel()
	require.Nil(t, l.Listen()())
}
