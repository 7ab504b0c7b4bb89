package client

import "sync"

// SessionState holds the locally bound credential and identity.
type SessionState struct {
	Token    string
	UserID   int
	Username string
	IsAdmin  bool
}

// ComposeState drives the mail compose surface.
type ComposeState struct {
	Open        bool
	RecipientID int
	Subject     string
	Body        string
}

// ProfileState drives the profile surface.
type ProfileState struct {
	Open bool
}

// WizardState tracks the multi-step flow and its draft values.
type WizardState struct {
	Step    int
	RoomID  int
	Content string
}

// State is the full client record. All slices are plain comparable
// values, so copies are safe to hand out.
type State struct {
	Session SessionState
	Compose ComposeState
	Profile ProfileState
	Wizard  WizardState
}

// SessionPatch is a partial session update; nil fields are left as-is.
type SessionPatch struct {
	Token    *string
	UserID   *int
	Username *string
	IsAdmin  *bool
}

type ComposePatch struct {
	Open        *bool
	RecipientID *int
	Subject     *string
	Body        *string
}

type ProfilePatch struct {
	Open *bool
}

type WizardPatch struct {
	Step    *int
	RoomID  *int
	Content *string
}

// StateStore is the single mutation path for client state. Each setter
// merges a patch into its slice and publishes the slice's topic on the
// bus only when the merged value differs.
type StateStore struct {
	mu    sync.Mutex
	bus   *EventBus
	state State
}

// NewStateStore constructs a store publishing changes on bus.
func NewStateStore(bus *EventBus) *StateStore {
	return &StateStore{bus: bus}
}

// GetState returns a copy of the full record.
func (s *StateStore) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *StateStore) SetSessionState(patch SessionPatch) {
	s.mu.Lock()
	next := s.state.Session
	if patch.Token != nil {
		next.Token = *patch.Token
	}
	if patch.UserID != nil {
		next.UserID = *patch.UserID
	}
	if patch.Username != nil {
		next.Username = *patch.Username
	}
	if patch.IsAdmin != nil {
		next.IsAdmin = *patch.IsAdmin
	}
	changed := next != s.state.Session
	s.state.Session = next
	s.mu.Unlock()

	// Publish outside the lock so handlers can read the store.
	if changed {
		s.bus.Publish(TopicSessionState, next)
	}
}

func (s *StateStore) SetComposeState(patch ComposePatch) {
	s.mu.Lock()
	next := s.state.Compose
	if patch.Open != nil {
		next.Open = *patch.Open
	}
	if patch.RecipientID != nil {
		next.RecipientID = *patch.RecipientID
	}
	if patch.Subject != nil {
		next.Subject = *patch.Subject
	}
	if patch.Body != nil {
		next.Body = *patch.Body
	}
	changed := next != s.state.Compose
	s.state.Compose = next
	s.mu.Unlock()

	if changed {
		s.bus.Publish(TopicComposeState, next)
	}
}

func (s *StateStore) SetProfileState(patch ProfilePatch) {
	s.mu.Lock()
	next := s.state.Profile
	if patch.Open != nil {
		next.Open = *patch.Open
	}
	changed := next != s.state.Profile
	s.state.Profile = next
	s.mu.Unlock()

	if changed {
		s.bus.Publish(TopicProfileState, next)
	}
}

func (s *StateStore) SetWizardState(patch WizardPatch) {
	s.mu.Lock()
	next := s.state.Wizard
	if patch.Step != nil {
		next.Step = *patch.Step
	}
	if patch.RoomID != nil {
		next.RoomID = *patch.RoomID
	}
	if patch.Content != nil {
		next.Content = *patch.Content
	}
	changed := next != s.state.Wizard
	s.state.Wizard = next
	s.mu.Unlock()

	if changed {
		s.bus.Publish(TopicWizardState, next)
	}
}
