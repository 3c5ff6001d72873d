package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dietcare-service/internal/domain"
	"github.com/spec-kit/dietcare-service/internal/events"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := events.NewInMemoryDispatcher()

	var received []events.Event
	d.Subscribe(events.EventUserLoggedIn, func(_ context.Context, e events.Event) error {
		received = append(received, e)
		return nil
	})

	event := events.Event{
		ID:        "evt-1",
		Type:      events.EventUserLoggedIn,
		UserID:    "user-1",
		Timestamp: time.Now(),
		Payload:   events.UserLoggedInPayload{Email: "alice@example.com", Role: domain.RolePatient},
	}
	require.NoError(t, d.Publish(context.Background(), event))

	require.Len(t, received, 1)
	assert.Equal(t, "evt-1", received[0].ID)
	assert.Equal(t, "user-1", received[0].UserID)
}

func TestDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	d := events.NewInMemoryDispatcher()

	var calls int
	d.Subscribe(events.EventUserRegistered, func(context.Context, events.Event) error {
		calls++
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventTokenRefreshed}))
	assert.Zero(t, calls)
}

func TestDispatcherContinuesPastFailingHandler(t *testing.T) {
	d := events.NewInMemoryDispatcher()

	var secondCalled bool
	d.Subscribe(events.EventUserRegistered, func(context.Context, events.Event) error {
		return errors.New("handler failure")
	})
	d.Subscribe(events.EventUserRegistered, func(context.Context, events.Event) error {
		secondCalled = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventUserRegistered}))
	assert.True(t, secondCalled)
}
