package remote

import (
	"fmt"
)

// NetworkError is returned when the request never produced a response.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UnexpectedStatusError is returned when the endpoint answered with a status
// the operation does not accept.
type UnexpectedStatusError struct {
	Op         string
	Method     string
	URL        string
	StatusCode int
	Body       string // first bytes of the response body
}

func (e *UnexpectedStatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: %s %s: unexpected status %d: %s", e.Op, e.Method, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %s %s: unexpected status %d", e.Op, e.Method, e.URL, e.StatusCode)
}
