package events

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	kindA Kind = "a"
	kindB Kind = "b"
)

func newTestBus() *Bus {
	return NewBus(log.New(io.Discard))
}

func TestBus_DeliversInOrderToMatchingSubscribers(t *testing.T) {
	t.Parallel()
	bus := newTestBus()

	var got []string
	bus.Subscribe(kindA, func(_ context.Context, kind Kind, payload any) error {
		got = append(got, "first:"+string(kind)+":"+payload.(string))
		return nil
	})
	bus.Subscribe(kindB, func(_ context.Context, _ Kind, _ any) error {
		got = append(got, "b-only")
		return nil
	})
	bus.SubscribeAll(func(_ context.Context, kind Kind, _ any) error {
		got = append(got, "all:"+string(kind))
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), kindA, "x"))
	require.NoError(t, bus.Publish(context.Background(), kindB, "y"))

	assert.Equal(t, []string{"first:a:x", "all:a", "b-only", "all:b"}, got)
}

func TestBus_IsolatesFailingSubscribers(t *testing.T) {
	t.Parallel()
	bus := newTestBus()
	errBoom := errors.New("boom")

	var reached int
	bus.Subscribe(kindA, func(context.Context, Kind, any) error { return errBoom })
	bus.Subscribe(kindA, func(context.Context, Kind, any) error { panic("kaboom") })
	bus.Subscribe(kindA, func(context.Context, Kind, any) error {
		reached++
		return nil
	})

	err := bus.Publish(context.Background(), kindA, nil)
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorContains(t, err, "kaboom")
	assert.Equal(t, 1, reached)
}

func TestBus_Unsubscribe(t *testing.T) {
	t.Parallel()
	bus := newTestBus()

	var calls int
	unsubscribe := bus.Subscribe(kindA, func(context.Context, Kind, any) error {
		calls++
		return nil
	})
	require.NoError(t, bus.Publish(context.Background(), kindA, nil))
	unsubscribe()
	unsubscribe()
	require.NoError(t, bus.Publish(context.Background(), kindA, nil))

	assert.Equal(t, 1, calls)
}

func TestBus_SubscribeDuringPublish(t *testing.T) {
	t.Parallel()
	bus := newTestBus()

	var late int
	bus.Subscribe(kindA, func(context.Context, Kind, any) error {
		bus.Subscribe(kindA, func(context.Context, Kind, any) error {
			late++
			return nil
		})
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), kindA, nil))
	assert.Equal(t, 0, late, "subscribers added mid-publish start with the next event")
	require.NoError(t, bus.Publish(context.Background(), kindA, nil))
	assert.Equal(t, 1, late)
}
