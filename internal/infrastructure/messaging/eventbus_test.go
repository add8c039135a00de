package messaging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ol2009/classquest-hub/internal/domain/shared"
)

func TestEventBus_PublishRoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(nil)

	var added, deleted, all int
	require.NoError(t, bus.Subscribe(shared.EventStudentsAdded, func(shared.Event) error {
		added++
		return nil
	}))
	require.NoError(t, bus.Subscribe(shared.EventStudentDeleted, func(shared.Event) error {
		deleted++
		return nil
	}))
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error {
		all++
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewStudentsAddedEvent("c1", []string{"Kim"})))
	require.NoError(t, bus.Publish(shared.NewStudentsAddedEvent("c1", []string{"Lee"})))
	require.NoError(t, bus.Publish(shared.NewStudentDeletedEvent("c1", "s1")))

	assert.Equal(t, 2, added)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, 3, all)
	assert.Equal(t, int64(2), bus.Metrics().Published(shared.EventStudentsAdded))
	assert.Equal(t, int64(1), bus.Metrics().Published(shared.EventStudentDeleted))
}

func TestEventBus_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewInMemoryEventBus(nil)

	var reached bool
	require.NoError(t, bus.Subscribe(shared.EventClassReset, func(shared.Event) error {
		return errors.New("boom")
	}))
	require.NoError(t, bus.Subscribe(shared.EventClassReset, func(shared.Event) error {
		reached = true
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewClassResetEvent("c1", 5)))

	assert.True(t, reached)
	assert.Equal(t, int64(1), bus.Metrics().HandlerFailures)
	assert.Equal(t, int64(1), bus.Metrics().HandlerSuccesses)
}

func TestEventBus_Closed(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	require.NoError(t, bus.Close())

	err := bus.Publish(shared.NewClassResetEvent("c1", 0))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventClassReset, func(shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.SubscribeAll(func(shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)
}

func TestEventBus_NilArguments(t *testing.T) {
	bus := NewInMemoryEventBus(nil)

	assert.Error(t, bus.Subscribe(shared.EventClassReset, nil))
	assert.Error(t, bus.SubscribeAll(nil))
	assert.Error(t, bus.Publish(nil))
}
