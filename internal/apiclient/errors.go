package apiclient

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned before any network call when no API key is set.
var ErrNotConfigured = errors.New("api key not configured")

// ConnectionError wraps a transport-level failure (DNS, connect, timeout).
// Well-formed non-2xx responses are not connection errors; those come back
// as a Response with Success=false.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsConnectionError reports whether err is a transport-level failure.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
