package core

import "fmt"

// EventType represents the kind of change applied to the collection.
type EventType string

const (
	EventReplace EventType = "REPLACE"
	EventCreate  EventType = "CREATE"
	EventModify  EventType = "MODIFY"
	EventDelete  EventType = "DELETE"
)

// Event represents a change in the local collection.
// It is published only after the change has been applied.
type Event struct {
	Type      EventType
	ID        string // empty for REPLACE
	Count     int    // collection length after the change
	Timestamp int64  // Unix timestamp
}

// String implements fmt.Stringer (and lifecycle.Event).
func (e Event) String() string {
	if e.ID == "" {
		return fmt.Sprintf("%s (%d notes)", e.Type, e.Count)
	}
	return fmt.Sprintf("%s %s (%d notes)", e.Type, e.ID, e.Count)
}
