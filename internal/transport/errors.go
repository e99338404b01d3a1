package transport

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("object not found")
	ErrNotImplemented = errors.New("operation not implemented")
)

// Error is a backend failure other than a missing object: auth, network,
// permission, throttling, timeouts.
type Error struct {
	Transport string
	Op        string
	ID        string
	Err       error
}

func (e *Error) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s transport: %s: %v", e.Transport, e.Op, e.Err)
	}
	return fmt.Sprintf("%s transport: %s %s: %v", e.Transport, e.Op, e.ID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsTransportError(err error) bool {
	var transportErr *Error
	return errors.As(err, &transportErr)
}

func notFound(transportName, id string) error {
	return fmt.Errorf("%s transport: get %s: %w", transportName, id, ErrNotFound)
}

func notImplemented(transportName, op string) error {
	return fmt.Errorf("%s transport: %s: %w", transportName, op, ErrNotImplemented)
}

var errEmptyID = errors.New("object id is required")
