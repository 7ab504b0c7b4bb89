package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messenger-service/internal/mocks"
)

func TestEmitBuildsEnvelope(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := NewAuditEmitter(publisher, "audit.messenger", "messenger-service", "test")

	userID := "7"
	publisher.On("Publish", mock.Anything, "audit.messenger", mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(AuditEnvelope)
		if !ok {
			return false
		}
		return envelope.EventType == "audit_log" &&
			envelope.Service == "messenger-service" &&
			envelope.Environment == "test" &&
			envelope.RequestID == "req-1" &&
			envelope.UserID != nil && *envelope.UserID == "7" &&
			envelope.Payload.Level == "warn" &&
			envelope.Payload.Text == "something odd"
	})).Return(nil).Once()

	emitter.Emit(context.Background(), "warn", "something odd", "req-1", &userID)
	publisher.AssertExpectations(t)
}

func TestEmitConnectionCarriesConnectionID(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := NewAuditEmitter(publisher, "audit.messenger", "messenger-service", "test")

	publisher.On("Publish", mock.Anything, "audit.messenger", mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(AuditEnvelope)
		if !ok {
			return false
		}
		return envelope.Payload.Text == "ws_connect" &&
			envelope.Payload.ConnectionID == "conn-1" &&
			envelope.UserID != nil && *envelope.UserID == "7"
	})).Return(nil).Once()

	emitter.EmitConnection(context.Background(), "ws_connect", "conn-1", "req-1", 7)
	publisher.AssertExpectations(t)
}

func TestEmitSwallowsPublishError(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := NewAuditEmitter(publisher, "k", "s", "e")

	publisher.On("Publish", mock.Anything, "k", mock.Anything).Return(assert.AnError).Once()

	emitter.Emit(context.Background(), "info", "t", "r", nil)
	publisher.AssertExpectations(t)
}

func TestNilEmitterIsSafe(t *testing.T) {
	var emitter *AuditEmitter
	require.NotPanics(t, func() {
		emitter.Emit(context.Background(), "info", "t", "r", nil)
		emitter.EmitConnection(context.Background(), "ws_connect", "c", "r", 1)
	})
}
