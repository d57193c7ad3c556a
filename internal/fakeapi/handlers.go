package fakeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
)

type ctxKey struct{}

func userFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Login handles POST /api/auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	userID, ok := s.store.authenticate(body.Email, body.Password)
	if !ok {
		JSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Please try to login with correct credentials",
		})
		return
	}

	token, err := s.IssueToken(userID)
	if err != nil {
		Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	JSON(w, http.StatusOK, map[string]any{"success": true, "authtoken": token})
}

// ListNotes handles GET /api/notes/.
func (s *Server) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes := s.store.list(userFrom(r.Context()))

	s.mu.RLock()
	envelope := s.envelope
	s.mu.RUnlock()

	if envelope {
		JSON(w, http.StatusOK, map[string]any{"data": notes})
		return
	}
	JSON(w, http.StatusOK, notes)
}

// AddNote handles POST /api/notes/.
func (s *Server) AddNote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Tag         string `json:"tag"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	n := s.store.create(userFrom(r.Context()), body.Title, body.Description, body.Tag)
	JSON(w, http.StatusOK, n)
}

// DeleteNote handles DELETE /api/notes/{id}.
func (s *Server) DeleteNote(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.delete(userFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"Success": "Note has been deleted", "note": n})
}

// UpdateNote handles PUT /api/notes/{id}.
func (s *Server) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Tag         *string `json:"tag"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	n, err := s.store.update(userFrom(r.Context()), chi.URLParam(r, "id"), body.Title, body.Description, body.Tag)
	if err != nil {
		s.storeError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"note": n})
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errNotFound):
		Error(w, http.StatusNotFound, "Not Found")
	case errors.Is(err, errNotAllowed):
		Error(w, http.StatusUnauthorized, "Not Allowed")
	default:
		Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// requireAuth validates the auth-token header and stores the user id in the context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderToken)
		if raw == "" {
			Error(w, http.StatusUnauthorized, "Please authenticate using a valid token")
			return
		}

		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || claims.Subject == "" {
			Error(w, http.StatusUnauthorized, "Please authenticate using a valid token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// inject answers with the configured fault for op, if any.
func (s *Server) inject(op string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.mu.RLock()
			f, ok := s.faults[op]
			s.mu.RUnlock()
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			status := f.Status
			if status == 0 {
				status = http.StatusInternalServerError
			}
			if f.Body == "" {
				Error(w, status, http.StatusText(status))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(f.Body))
		})
	}
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
			"client_request_id", r.Header.Get("X-Request-ID"),
		)
	})
}
