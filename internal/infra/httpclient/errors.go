package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrCircuitOpen is returned without touching the network while the
// upstream circuit breaker is open and this client has no failure of its
// own to report.
var ErrCircuitOpen = errors.New("httpclient: circuit open, upstream unavailable")

// StatusError is a response that arrived with a non-2xx status.
// It is surfaced unchanged once retries are exhausted or not allowed.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %s", e.Method, e.URL, e.Status)
}

// StatusCode extracts the HTTP status from err, or 0 when there was no response.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
