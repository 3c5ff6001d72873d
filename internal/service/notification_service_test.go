package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/dietcare-service/internal/config"
	"github.com/spec-kit/dietcare-service/internal/domain"
	"github.com/spec-kit/dietcare-service/internal/events"
	"github.com/spec-kit/dietcare-service/internal/service"
)

func newObservedNotificationService() (events.Dispatcher, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	n := service.NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{
		EmailFrom:  "noreply@example.com",
		WebhookURL: "https://hooks.example.com/dietcare",
	})
	n.RegisterHandlers()
	return dispatcher, logs
}

func TestNotificationHandlesUserRegistered(t *testing.T) {
	dispatcher, logs := newObservedNotificationService()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		ID:        "evt-1",
		Type:      events.EventUserRegistered,
		UserID:    "user-1",
		Timestamp: time.Now(),
		Payload:   events.UserRegisteredPayload{Email: "alice@example.com", Name: "Alice", Role: domain.RolePatient},
	}))

	assert.Equal(t, 1, logs.FilterMessage("UserRegistered").Len())
	// registration fans out to both stub channels
	assert.Equal(t, 1, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Equal(t, 1, logs.FilterMessage("sendWebhookNotificationStub").Len())
}

func TestNotificationHandlesTokenRefreshed(t *testing.T) {
	dispatcher, logs := newObservedNotificationService()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		ID:        "evt-2",
		Type:      events.EventTokenRefreshed,
		UserID:    "user-1",
		Timestamp: time.Now(),
		Payload:   events.TokenRefreshedPayload{ExpiresAt: time.Now().Add(24 * time.Hour)},
	}))

	assert.Equal(t, 1, logs.FilterMessage("TokenRefreshed").Len())
	// a routine rotation triggers no outbound notification
	assert.Zero(t, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Zero(t, logs.FilterMessage("sendWebhookNotificationStub").Len())
}
