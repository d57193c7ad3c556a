// Package credential provides the token sources consulted by the REST client.
//
// Every source is read at call time. None of them caches the token in memory,
// so a login or logout is visible to the very next request.
package credential

import (
	"context"
	"os"
)

// TokenKey is the key under which the bearer token is persisted.
const TokenKey = "token"

// Static always returns the same token. Useful for tests and one-off scripts.
type Static string

// Token implements core.CredentialSource.
func (s Static) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

// Env reads the token from an environment variable on every call.
type Env string

// Token implements core.CredentialSource.
func (e Env) Token(ctx context.Context) (string, error) {
	return os.Getenv(string(e)), nil
}
