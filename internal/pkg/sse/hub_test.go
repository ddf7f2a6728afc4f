package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToTopic(t *testing.T) {
	hub := NewHub()

	alice, cleanupAlice := hub.Subscribe("Alice")
	defer cleanupAlice()
	bob, cleanupBob := hub.Subscribe("Bob")
	defer cleanupBob()

	hub.Publish(" alice ", Event{Event: "attendance", Data: "checked in"})

	select {
	case ev := <-alice:
		assert.Equal(t, "attendance", ev.Event)
		assert.Equal(t, "checked in", ev.Data)
	default:
		t.Fatal("expected an event for alice")
	}

	select {
	case <-bob:
		t.Fatal("bob must not receive alice's events")
	default:
	}
}

func TestHub_Cleanup(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("Alice")
	_, other := hub.Subscribe("alice")
	assert.Equal(t, 2, hub.SubscriberCount("ALICE"))
	assert.Equal(t, 2, hub.TotalSubscribers())

	cleanup()
	cleanup()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 1, hub.SubscriberCount("Alice"))

	other()
	assert.Equal(t, 0, hub.TotalSubscribers())
}

func TestHub_FullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("Alice")
	defer cleanup()

	for i := 0; i < hub.bufferSize+5; i++ {
		hub.Publish("Alice", Event{Event: "attendance", Data: i})
	}
	require.Len(t, ch, hub.bufferSize)
}
