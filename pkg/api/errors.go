package api

import (
	"fmt"
	"net/http"
)

// TransportError reports a failed fetch: the request could not be made, the
// server answered with a non-2xx status, or the body was not valid JSON.
type TransportError struct {
	Path       string
	StatusCode int // 0 when no response was received
	Reason     string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %s", e.Path, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("fetch %s: %s", e.Path, e.Reason)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NotFound reports whether the server had no record for the path.
func (e *TransportError) NotFound() bool { return e.StatusCode == http.StatusNotFound }
