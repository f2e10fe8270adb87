package client

import (
	"errors"
	"fmt"
)

// ErrMalformedSnapshot is wrapped by PollTransportError when a 2xx snapshot
// body cannot be decoded or lacks one of the required maps.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// AuthError is returned by Login when the coordinator rejects the credentials
// or the login request could not be completed. Message is meant for the
// operator.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// PollTransportError is returned by GetSnapshot for network failures,
// non-2xx responses (StatusCode set), and undecodable bodies. Unauthorized
// responses are not distinguished from other failures.
type PollTransportError struct {
	StatusCode int
	Err        error
}

func (e *PollTransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("snapshot poll: status %d: %v", e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("snapshot poll: status %d", e.StatusCode)
	default:
		return fmt.Sprintf("snapshot poll: %v", e.Err)
	}
}

func (e *PollTransportError) Unwrap() error { return e.Err }
