package credential

import (
	"time"

	"github.com/aretw0/introspection"
)

// FileStoreState exposes internal state for observability. The token itself is never exposed.
type FileStoreState struct {
	Path      string     `json:"path"`
	HasToken  bool       `json:"has_token"`
	Subject   string     `json:"subject,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// State implements introspection.Introspectable.
func (s *FileStore) State() any {
	state := FileStoreState{Path: s.path}

	token, ok, err := s.Get(TokenKey)
	if err != nil {
		state.Error = err.Error()
		return state
	}
	state.HasToken = ok && token != ""
	if info, err := Inspect(token); err == nil {
		state.Subject = info.Subject
		state.ExpiresAt = info.ExpiresAt
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *FileStore) ComponentType() string {
	return "credential-store"
}

var _ introspection.Introspectable = (*FileStore)(nil)
var _ introspection.Component = (*FileStore)(nil)
