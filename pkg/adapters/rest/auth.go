package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aretw0/notesync/pkg/core"
)

// LoginPath is the authentication route under the host.
const LoginPath = "/api/auth/login"

// Login exchanges email and password for an auth token at host.
// A nil httpClient means http.DefaultClient.
func Login(ctx context.Context, httpClient *http.Client, host, email, password string) (string, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if host == "" {
		host = DefaultHost
	}

	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", fmt.Errorf("login: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(host, "/")+LoginPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("login: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", &core.TransportError{Op: "login", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &core.TransportError{Op: "login", Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &core.StatusError{Op: "login", Code: resp.StatusCode, Body: excerpt(data)}
	}

	var body struct {
		AuthToken string `json:"authtoken"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.AuthToken == "" {
		return "", fmt.Errorf("login: %w: %s", core.ErrUnexpectedShape, excerpt(data))
	}
	return body.AuthToken, nil
}
