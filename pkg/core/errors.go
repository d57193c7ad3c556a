package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrReadOnly        = errors.New("store is in read-only mode")
	ErrUnexpectedShape = errors.New("unexpected response shape")
)

// StatusError reports a response received with a non-2xx status.
type StatusError struct {
	Op   string
	Code int
	Body string // trimmed excerpt, for diagnostics
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: server returned status %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: server returned status %d: %s", e.Op, e.Code, e.Body)
}

// TransportError reports a request that never produced a response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsStatus reports whether err is a StatusError carrying the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
