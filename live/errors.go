package live

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by constructors when a required credential or
// endpoint is missing
var ErrNotConfigured = errors.New("live collaborator not configured")

// StatusError reports a non-2xx response from a collaborator
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Temporary reports whether retrying later could succeed
func (e *StatusError) Temporary() bool {
	return e.Code == 429 || e.Code >= 500
}
