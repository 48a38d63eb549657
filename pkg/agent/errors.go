package agent

import (
	"errors"
	"fmt"
)

// ErrNoApps indicates the agent server's app listing came back empty, so no
// app name could be resolved for session creation.
var ErrNoApps = errors.New("agent server lists no apps")

// StatusError reports a non-2xx response from the agent server. Transport
// failures (connection refused, timeout) surface as wrapped url.Error values
// instead; a StatusError means the server was reached and said no.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.Code, e.Body)
}

// DecodeError reports a response body that could not be decoded into the
// expected shape, including a session-creation response missing its id.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
