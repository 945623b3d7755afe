package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the request carried no valid bearer token
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the token's role does not permit the operation
var ErrForbidden = errors.New("forbidden")

// ErrNotFound indicates the requested resource does not exist
var ErrNotFound = errors.New("not found")

// StatusError represents any other non-2xx response from the server.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned HTTP %d", e.StatusCode)
}
