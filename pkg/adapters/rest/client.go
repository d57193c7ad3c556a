// Package rest implements core.Remote over the notes HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/aretw0/notesync/pkg/core"
	"github.com/aretw0/notesync/pkg/credential"
)

const (
	// DefaultHost is the API host used when none is configured.
	DefaultHost = "http://localhost:3002"

	// DefaultPath is the notes collection path under the host.
	DefaultPath = "/api/notes"

	// HeaderToken carries the bearer credential.
	HeaderToken = "auth-token"

	// HeaderRequestID correlates client diagnostics with server logs.
	HeaderRequestID = "X-Request-ID"

	maxBodyBytes    = 8 << 20
	maxErrorExcerpt = 256
)

// Config holds the configuration for the REST client.
type Config struct {
	Endpoint    string // host + path prefix, e.g. http://localhost:3002/api/notes
	Credentials core.CredentialSource
	HTTPClient  *http.Client
	Timeout     time.Duration // per-request; zero means no client-side timeout
	Logger      *slog.Logger
	UserAgent   string
}

// Client implements core.Remote against the notes API.
type Client struct {
	endpoint  string
	creds     core.CredentialSource
	http      *http.Client
	timeout   time.Duration
	logger    *slog.Logger
	userAgent string

	mu         sync.Mutex
	requests   int
	failures   int
	lastStatus int
	lastError  string
}

// NewClient creates a client for the given configuration.
func NewClient(cfg Config) *Client {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultHost + DefaultPath
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		endpoint:  endpoint,
		creds:     cfg.Credentials,
		http:      httpClient,
		timeout:   cfg.Timeout,
		logger:    logger,
		userAgent: cfg.UserAgent,
	}
}

// Endpoint returns the base URL the client talks to.
func (c *Client) Endpoint() string { return c.endpoint }

// List fetches the collection. The body may be a bare array or a {"data": [...]} envelope.
func (c *Client) List(ctx context.Context) ([]core.Note, error) {
	body, err := c.do(ctx, "list", http.MethodGet, "", nil)
	if err != nil {
		return nil, err
	}
	return decodeList(body)
}

// Create posts a draft and decodes the server's copy of the note.
func (c *Client) Create(ctx context.Context, d core.Draft) (core.Note, error) {
	body, err := c.do(ctx, "add", http.MethodPost, "", d)
	if err != nil {
		return core.Note{}, err
	}

	var n core.Note
	if err := json.Unmarshal(body, &n); err != nil {
		return core.Note{}, fmt.Errorf("add: %w: %v", core.ErrUnexpectedShape, err)
	}
	c.logger.Debug("server created note", "id", n.ID, "body", excerpt(body))
	return n, nil
}

// Delete removes a note. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id string) error {
	body, err := c.do(ctx, "remove", http.MethodDelete, id, nil)
	if err != nil {
		return err
	}
	c.logger.Debug("server deleted note", "id", id, "body", excerpt(body))
	return nil
}

// Update replaces title, description and tag. The response body is ignored.
func (c *Client) Update(ctx context.Context, id string, d core.Draft) error {
	body, err := c.do(ctx, "edit", http.MethodPut, id, d)
	if err != nil {
		return err
	}
	c.logger.Debug("server updated note", "id", id, "body", excerpt(body))
	return nil
}

func (c *Client) url(id string) string {
	if id == "" {
		return c.endpoint + "/"
	}
	return c.endpoint + "/" + url.PathEscape(id)
}

// do executes one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, op, method, id string, payload any) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(id), reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: read credential: %w", op, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderToken, token)
	req.Header.Set(HeaderRequestID, requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("sending request", "op", op, "method", method, "url", req.URL.String(), "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.record(0, err)
		return nil, &core.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.record(resp.StatusCode, err)
		return nil, &core.TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &core.StatusError{Op: op, Code: resp.StatusCode, Body: excerpt(data)}
		c.record(resp.StatusCode, statusErr)
		return nil, statusErr
	}

	c.record(resp.StatusCode, nil)
	return data, nil
}

// token reads the credential fresh for every request.
func (c *Client) token(ctx context.Context) (string, error) {
	if c.creds == nil {
		return "", nil
	}
	token, err := c.creds.Token(ctx)
	if err != nil {
		return "", err
	}
	if info, err := credential.Inspect(token); err == nil && info.Expired(time.Now()) {
		c.logger.Warn("credential appears to be expired", "subject", info.Subject, "expired_at", info.ExpiresAt)
	}
	return token, nil
}

func (c *Client) record(status int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests++
	c.lastStatus = status
	if err != nil {
		c.failures++
		c.lastError = err.Error()
	} else {
		c.lastError = ""
	}
}

// decodeList accepts a JSON array of notes or an object whose "data" field is one.
func decodeList(body []byte) ([]core.Note, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("list: %w: empty body", core.ErrUnexpectedShape)
	}

	switch trimmed[0] {
	case '[':
		return decodeArray(trimmed)
	case '{':
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("list: %w: %v", core.ErrUnexpectedShape, err)
		}
		data := bytes.TrimSpace(envelope.Data)
		if len(data) > 0 && data[0] == '[' {
			return decodeArray(data)
		}
	}

	return nil, fmt.Errorf("list: %w: %s", core.ErrUnexpectedShape, excerpt(trimmed))
}

func decodeArray(data []byte) ([]core.Note, error) {
	notes := []core.Note{}
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("list: %w: %v", core.ErrUnexpectedShape, err)
	}
	return notes, nil
}

func excerpt(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorExcerpt {
		cut := maxErrorExcerpt
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	return s
}
