package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/finclutech/employee-service/internal/config"
	"github.com/finclutech/employee-service/internal/events"
)

type message struct {
	channel string
	payload []byte
}

type fakePublisher struct {
	sent []message
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, channel string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, message{channel: channel, payload: payload})
	return nil
}

func TestNotificationServiceForwardsEveryType(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	publisher := &fakePublisher{}
	NewNotificationService(dispatcher, publisher, zaptest.NewLogger(t), config.EventsConfig{Channel: "employees.events"}).RegisterHandlers()

	ctx := context.Background()
	for _, eventType := range events.AllTypes {
		require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(eventType, "X1", nil)))
	}

	require.Len(t, publisher.sent, len(events.AllTypes))
	var decoded events.Event
	require.NoError(t, json.Unmarshal(publisher.sent[0].payload, &decoded))
	assert.Equal(t, "employees.events", publisher.sent[0].channel)
	assert.Equal(t, events.EventEmployeeCreated, decoded.Type)
	assert.Equal(t, "X1", decoded.EntityID)
}

func TestNotificationServiceWithoutPublisher(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, nil, zaptest.NewLogger(t), config.EventsConfig{}).RegisterHandlers()

	assert.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventEmployeeDeleted, "E1", nil)))
}

func TestNotificationServiceSurfacesPublishFailure(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	boom := errors.New("connection refused")
	NewNotificationService(dispatcher, &fakePublisher{err: boom}, zaptest.NewLogger(t), config.EventsConfig{Channel: "c"}).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventEmployeeUpdated, "E1", nil))
	assert.ErrorIs(t, err, boom)
}
