package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the server has no valid session for us,
	// either as a 401 or as a redirect to the login page.
	ErrUnauthorized = errors.New("not logged in")
	// ErrInvalidCredentials is returned by Login for a rejected username/password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// StatusError is a non-2xx answer from the chore server.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("chore server: %s: %s", e.Status, e.Body)
	}
	return "chore server: " + e.Status
}
