package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a disable or status lookup finds no
	// subscription for the caller. Surfaced, not swallowed: the client must
	// be able to tell "already unregistered" apart from success.
	ErrNotFound = errors.New("subscription not found")

	// ErrBadPlatform rejects platforms outside ios/android. Never retried.
	ErrBadPlatform = errors.New("unknown platform")
)

// GatewayError wraps a failed push-gateway call.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("push gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }
