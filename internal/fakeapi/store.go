package fakeapi

import (
	"crypto/rand"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

var (
	errNotFound   = errors.New("not found")
	errNotAllowed = errors.New("not allowed")
)

// DefaultTag is assigned to notes created without a tag.
const DefaultTag = "General"

// Note is a note as the server stores and serves it.
type Note struct {
	ID          string    `json:"_id"`
	User        string    `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tag         string    `json:"tag"`
	Date        time.Time `json:"date"`
}

type user struct {
	ID       string
	Email    string
	Password []byte // bcrypt hash
}

// memoryStore holds users and notes in insertion order.
type memoryStore struct {
	mu      sync.RWMutex
	notes   map[string]Note
	order   []string
	users   map[string]user // by email
	entropy io.Reader
	now     func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		notes:   make(map[string]Note),
		order:   make([]string, 0),
		users:   make(map[string]user),
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// nextID must be called with mu held; monotonic entropy is not goroutine safe.
func (s *memoryStore) nextID() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

func (s *memoryStore) addUser(email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[email]; ok {
		u.Password = hash
		s.users[email] = u
		return u.ID, nil
	}
	id := s.nextID()
	s.users[email] = user{ID: id, Email: email, Password: hash}
	return id, nil
}

func (s *memoryStore) authenticate(email, password string) (string, bool) {
	s.mu.RLock()
	u, ok := s.users[email]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if err := bcrypt.CompareHashAndPassword(u.Password, []byte(password)); err != nil {
		return "", false
	}
	return u.ID, true
}

func (s *memoryStore) list(userID string) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Note, 0, len(s.order))
	for _, id := range s.order {
		if n := s.notes[id]; n.User == userID {
			out = append(out, n)
		}
	}
	return out
}

func (s *memoryStore) create(userID, title, description, tag string) Note {
	if tag == "" {
		tag = DefaultTag
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n := Note{
		ID:          s.nextID(),
		User:        userID,
		Title:       title,
		Description: description,
		Tag:         tag,
		Date:        s.now().UTC(),
	}
	s.notes[n.ID] = n
	s.order = append(s.order, n.ID)
	return n
}

func (s *memoryStore) delete(userID, id string) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		return Note{}, errNotFound
	}
	if n.User != userID {
		return Note{}, errNotAllowed
	}
	delete(s.notes, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return n, nil
}

// update applies only the fields that were sent.
func (s *memoryStore) update(userID, id string, title, description, tag *string) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		return Note{}, errNotFound
	}
	if n.User != userID {
		return Note{}, errNotAllowed
	}
	if title != nil {
		n.Title = *title
	}
	if description != nil {
		n.Description = *description
	}
	if tag != nil {
		n.Tag = *tag
	}
	s.notes[id] = n
	return n, nil
}

func (s *memoryStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *memoryStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = make(map[string]Note)
	s.order = s.order[:0]
}
