package client

import (
	"errors"
	"fmt"
)

// ErrNoBaseURL is returned by New when no server URL was provided.
var ErrNoBaseURL = errors.New("orbit client: base URL is required")

// RequestError reports a failed exchange with the server. A non-2xx
// status and a connection-level failure both surface through this type;
// the server does not distinguish them and neither do we.
type RequestError struct {
	Status int   // HTTP status code, 0 if the request never completed
	Err    error // underlying transport error, nil for status failures
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("chat request failed: %v", e.Err)
	}
	return fmt.Sprintf("chat request failed: server returned status %d", e.Status)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
