package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Notes       int        `json:"notes"`
	Subscribers int        `json:"subscribers"`
	ReadOnly    bool       `json:"read_only"`
	RemoteType  string     `json:"remote_type"`
	LastSync    *time.Time `json:"last_sync,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	notes := len(s.notes)
	lastSync := s.lastSync
	s.mu.RUnlock()

	remoteType := "unknown"
	if s.remote != nil {
		remoteType = "remote"
		if comp, ok := s.remote.(introspection.Component); ok {
			remoteType = comp.ComponentType()
		}
	}

	return StoreState{
		Notes:       notes,
		Subscribers: s.broker.count(),
		ReadOnly:    s.readOnly,
		RemoteType:  remoteType,
		LastSync:    lastSync,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "note-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
