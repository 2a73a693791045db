package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoConnection is returned when an operation that needs an
	// established channel runs while none is present.
	ErrNoConnection = errors.New("no connection established")

	// ErrAlreadyStarted is returned by Start on a service that already
	// left the idle state.
	ErrAlreadyStarted = errors.New("connection already started")
)

// DecodingError reports a binary payload that did not parse as the expected
// message type. It is a per-message fault: the connection stays up.
type DecodingError struct {
	Cause error
}

func (e *DecodingError) Error() string { return fmt.Sprintf("decoding failed: %v", e.Cause) }

func (e *DecodingError) Unwrap() error { return e.Cause }

// UnknownError wraps a lower-level transport fault: connect, handshake,
// write, read or close failures. It terminates the event stream.
type UnknownError struct {
	Cause error
}

func (e *UnknownError) Error() string { return fmt.Sprintf("connection failure: %v", e.Cause) }

func (e *UnknownError) Unwrap() error { return e.Cause }
