package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var received []Event
	dispatcher.Subscribe(EventTicketCreated, func(ctx context.Context, event Event) error {
		received = append(received, event)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "ticket-1"})

	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "ticket-1", received[0].TicketID)
}

func TestDispatcher_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	calls := 0
	dispatcher.Subscribe(EventTicketReplyAdded, func(ctx context.Context, event Event) error {
		calls++
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventTicketReplyAdded, func(ctx context.Context, event Event) error {
		calls++
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventTicketReplyAdded})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDispatcher_IgnoresUnsubscribedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	called := false
	dispatcher.Subscribe(EventTicketCreated, func(ctx context.Context, event Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketStatusChanged}))
	assert.False(t, called)
}
