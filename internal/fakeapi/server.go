// Package fakeapi is an in-memory twin of the notes HTTP API.
// It serves the same routes and payloads as the real backend and adds
// fault injection so clients can be exercised against failures.
package fakeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// HeaderToken is the request header carrying the auth token.
const HeaderToken = "auth-token"

// Config configures a Server.
type Config struct {
	Secret   string        // HS256 signing key; a fixed development key when empty
	Envelope bool          // wrap list responses as {"data": [...]}
	TokenTTL time.Duration // zero means 24h
	Logger   *slog.Logger
}

// Fault forces a response for one operation.
type Fault struct {
	Status int
	Body   string // sent verbatim; an error object when empty
}

// Server is the notes API twin.
type Server struct {
	Router chi.Router

	store    *memoryStore
	secret   []byte
	ttl      time.Duration
	logger   *slog.Logger
	envelope bool

	mu     sync.RWMutex
	faults map[string]Fault
}

// New creates a Server with an empty store.
func New(cfg Config) *Server {
	secret := cfg.Secret
	if secret == "" {
		secret = "notesync-dev-secret"
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{
		store:    newMemoryStore(),
		secret:   []byte(secret),
		ttl:      ttl,
		logger:   logger,
		envelope: cfg.Envelope,
		faults:   make(map[string]Fault),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLog)

	r.Post("/api/auth/login", s.Login)
	r.Route("/api/notes", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.With(s.inject("list")).Get("/", s.ListNotes)
		r.With(s.inject("add")).Post("/", s.AddNote)
		r.With(s.inject("remove")).Delete("/{id}", s.DeleteNote)
		r.With(s.inject("edit")).Put("/{id}", s.UpdateNote)
	})

	s.Router = r
	return s
}

// ServeHTTP implements http.Handler so the twin can be mounted in httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// AddUser registers a user and returns its id. Re-adding an email resets the password.
func (s *Server) AddUser(email, password string) (string, error) {
	return s.store.addUser(email, password)
}

// IssueToken signs a token for userID, as Login would.
func (s *Server) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// SetFault makes every request for op ("list", "add", "remove", "edit")
// answer with f instead of being handled.
func (s *Server) SetFault(op string, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = f
}

// ClearFaults removes all injected faults.
func (s *Server) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[string]Fault)
}

// SetEnvelope switches list responses between a bare array and {"data": [...]}.
func (s *Server) SetEnvelope(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envelope = enabled
}

// Count returns the number of notes held for all users.
func (s *Server) Count() int { return s.store.count() }

// Reset drops every note. Users are kept.
func (s *Server) Reset() { s.store.reset() }

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting notes api", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down notes api", "addr", addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]any{"error": message})
}
