package chatapi

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound matches a *StatusError carrying a 404.
	ErrNotFound = errors.New("chatapi: resource not found")

	// ErrUsernameRequired is returned by CreateUser before any request is sent.
	ErrUsernameRequired = errors.New("chatapi: username is required")
)

// StatusError reports a non-success HTTP status on an operation that
// propagates failures to the caller.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("chatapi: unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("chatapi: unexpected status %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
