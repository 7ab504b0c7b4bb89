package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestStoreMergesPartialSessionPatch(t *testing.T) {
	bus := NewEventBus()
	store := NewStateStore(bus)

	store.SetSessionState(SessionPatch{Token: strPtr("t"), UserID: intPtr(1), Username: strPtr("ann")})
	store.SetSessionState(SessionPatch{IsAdmin: boolPtr(true)})

	state := store.GetState()
	assert.Equal(t, "t", state.Session.Token)
	assert.Equal(t, 1, state.Session.UserID)
	assert.Equal(t, "ann", state.Session.Username)
	assert.True(t, state.Session.IsAdmin)
}

func TestStorePublishesOnlyOnChange(t *testing.T) {
	bus := NewEventBus()
	store := NewStateStore(bus)

	var published []SessionState
	bus.Subscribe(TopicSessionState, func(payload any) {
		published = append(published, payload.(SessionState))
	})

	store.SetSessionState(SessionPatch{Token: strPtr("t")})
	store.SetSessionState(SessionPatch{Token: strPtr("t")})
	store.SetSessionState(SessionPatch{Token: strPtr("u")})

	require.Len(t, published, 2)
	assert.Equal(t, "t", published[0].Token)
	assert.Equal(t, "u", published[1].Token)
}

func TestStoreEmptyPatchDoesNotPublish(t *testing.T) {
	bus := NewEventBus()
	store := NewStateStore(bus)

	var calls int
	bus.Subscribe(TopicComposeState, func(any) { calls++ })

	store.SetComposeState(ComposePatch{})

	assert.Equal(t, 0, calls)
}

func TestStoreSlicesAreIndependent(t *testing.T) {
	bus := NewEventBus()
	store := NewStateStore(bus)

	var sessionCalls, composeCalls int
	bus.Subscribe(TopicSessionState, func(any) { sessionCalls++ })
	bus.Subscribe(TopicComposeState, func(any) { composeCalls++ })

	store.SetComposeState(ComposePatch{Open: boolPtr(true), RecipientID: intPtr(2)})

	assert.Equal(t, 0, sessionCalls)
	assert.Equal(t, 1, composeCalls)
	assert.True(t, store.GetState().Compose.Open)
}

func TestStoreHandlerCanReadStoreDuringPublish(t *testing.T) {
	bus := NewEventBus()
	store := NewStateStore(bus)

	var seen WizardState
	bus.Subscribe(TopicWizardState, func(any) {
		seen = store.GetState().Wizard
	})

	store.SetWizardState(WizardPatch{Step: intPtr(2), RoomID: intPtr(3)})

	assert.Equal(t, 2, seen.Step)
	assert.Equal(t, 3, seen.RoomID)
}

func TestStoreGetStateReturnsCopy(t *testing.T) {
	bus := NewEventBus()
	store := NewStateStore(bus)

	store.SetProfileState(ProfilePatch{Open: boolPtr(true)})

	state := store.GetState()
	state.Profile.Open = false

	assert.True(t, store.GetState().Profile.Open)
}
