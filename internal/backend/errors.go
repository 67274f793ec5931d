package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized means the session was rejected and has been cleared.
	ErrUnauthorized = errors.New("session expired: sign in again with `studypack login`")

	// ErrNotFound means the requested resource does not exist or is not
	// published yet.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the draft was superseded by a newer one.
	ErrConflict = errors.New("draft was superseded by a newer version; reload before approving")
)

// HTTPError is a non-2xx response from the backend.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("backend: HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps well-known statuses onto the package sentinels.
func (e *HTTPError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	}
	return nil
}
