package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// StoreConfig holds the optional collaborators of a Store.
type StoreConfig struct {
	Logger      *slog.Logger
	EventBuffer int  // per-subscriber buffer, zero means default (100)
	ReadOnly    bool // reject Add/Remove/Edit without calling the remote
}

// Store keeps an ordered, in-memory mirror of the server's notes.
//
// Every operation performs its network round-trip without holding the lock and
// applies the result in a single state replacement afterwards. Concurrent
// operations are not ordered: whichever response lands last wins.
type Store struct {
	remote   Remote
	logger   *slog.Logger
	readOnly bool
	broker   *broker

	mu       sync.RWMutex
	notes    []Note
	lastSync *time.Time
}

// NewStore creates an empty Store backed by remote.
// It does not contact the server; call Connect for the initial fetch.
func NewStore(remote Remote, cfg StoreConfig) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		remote:   remote,
		logger:   logger,
		readOnly: cfg.ReadOnly,
		broker:   newBroker(cfg.EventBuffer, logger),
		notes:    []Note{},
	}
}

// Connect performs the initial fetch of the collection.
func (s *Store) Connect(ctx context.Context) error {
	s.logger.Debug("connecting note store")
	return s.List(ctx)
}

// List replaces the collection with the server listing.
// On any failure the collection is left untouched.
func (s *Store) List(ctx context.Context) error {
	notes, err := s.remote.List(ctx)
	if err != nil {
		if errors.Is(err, ErrUnexpectedShape) {
			s.logger.Warn("unexpected API response structure", "op", "list", "error", err)
		} else {
			s.logger.Error("error fetching notes", "op", "list", "error", err)
		}
		return err
	}

	fresh := make([]Note, len(notes))
	for i, n := range notes {
		fresh[i] = n.Clone()
	}

	now := time.Now()
	s.mu.Lock()
	s.notes = fresh
	s.lastSync = &now
	count := len(s.notes)
	s.mu.Unlock()

	s.logger.Debug("notes fetched", "count", count)
	s.publish(EventReplace, "", count)
	return nil
}

// Add creates a note on the server and appends the server's copy.
func (s *Store) Add(ctx context.Context, d Draft) error {
	if s.readOnly {
		return ErrReadOnly
	}

	created, err := s.remote.Create(ctx, d)
	if err != nil {
		s.logger.Error("error adding note", "op", "add", "error", err)
		return err
	}

	s.mu.Lock()
	s.notes = append(s.notes, created.Clone())
	count := len(s.notes)
	s.mu.Unlock()

	s.logger.Debug("note added", "id", created.ID, "title", created.Title)
	s.publish(EventCreate, created.ID, count)
	return nil
}

// Remove deletes a note on the server, then drops the first local match.
func (s *Store) Remove(ctx context.Context, id string) error {
	if s.readOnly {
		return ErrReadOnly
	}

	if err := s.remote.Delete(ctx, id); err != nil {
		s.logger.Error("error removing note", "op", "remove", "id", id, "error", err)
		return err
	}

	s.mu.Lock()
	removed := false
	for i, n := range s.notes {
		if n.ID == id {
			next := make([]Note, 0, len(s.notes)-1)
			next = append(next, s.notes[:i]...)
			s.notes = append(next, s.notes[i+1:]...)
			removed = true
			break
		}
	}
	count := len(s.notes)
	s.mu.Unlock()

	s.logger.Debug("note removed", "id", id, "local", removed)
	if removed {
		s.publish(EventDelete, id, count)
	}
	return nil
}

// Edit updates title, description and tag of a note on the server, then
// applies the same change to the local copy. The id and any extra server
// fields are left as they were.
func (s *Store) Edit(ctx context.Context, title, description, tag, id string) error {
	if s.readOnly {
		return ErrReadOnly
	}

	d := Draft{Title: title, Description: description, Tag: tag}
	if err := s.remote.Update(ctx, id, d); err != nil {
		s.logger.Error("error editing note", "op", "edit", "id", id, "error", err)
		return err
	}

	s.mu.Lock()
	found := false
	next := make([]Note, len(s.notes))
	copy(next, s.notes)
	for i := range next {
		if next[i].ID == id {
			next[i].Title = title
			next[i].Description = description
			next[i].Tag = tag
			found = true
			break
		}
	}
	s.notes = next
	count := len(s.notes)
	s.mu.Unlock()

	s.logger.Debug("note edited", "id", id, "local", found)
	if found {
		s.publish(EventModify, id, count)
	}
	return nil
}

// Notes returns a snapshot of the collection.
func (s *Store) Notes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Note, len(s.notes))
	for i, n := range s.notes {
		out[i] = n.Clone()
	}
	return out
}

// Find returns the note with the given id from the local collection.
func (s *Store) Find(id string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.notes {
		if n.ID == id {
			return n.Clone(), true
		}
	}
	return Note{}, false
}

// Len returns the number of notes held locally.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Filter returns the notes whose tag matches a doublestar glob (e.g. "work/**").
func (s *Store) Filter(pattern string) ([]Note, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	var out []Note
	for _, n := range s.Notes() {
		if ok, _ := doublestar.Match(pattern, n.Tag); ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// Subscribe returns a channel that receives an Event after every successful mutation.
// The channel is closed when ctx is done or the store is closed.
func (s *Store) Subscribe(ctx context.Context) <-chan Event {
	return s.broker.subscribe(ctx)
}

// Close releases every subscriber. The store remains usable.
func (s *Store) Close() error {
	s.broker.close()
	return nil
}

func (s *Store) publish(t EventType, id string, count int) {
	s.broker.publish(Event{
		Type:      t,
		ID:        id,
		Count:     count,
		Timestamp: time.Now().Unix(),
	})
}
