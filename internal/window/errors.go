package window

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection is returned when the display cannot be opened.
	ErrConnection = errors.New("cannot connect to display")

	// ErrConfig is the parent of every pixel format and context failure.
	ErrConfig = errors.New("pixel format configuration error")

	ErrInvalidShare    = fmt.Errorf("%w: incompatible share context", ErrConfig)
	ErrInvalidConfig   = fmt.Errorf("%w: unusable config", ErrConfig)
	ErrContextCreation = fmt.Errorf("%w: context creation failed", ErrConfig)

	// ErrProperty is the parent of naming property failures.
	ErrProperty = errors.New("window property error")

	// ErrProtocolViolation is the parent of ProtocolViolationError.
	ErrProtocolViolation = errors.New("protocol violation")

	ErrWindowClosed  = errors.New("window is closed")
	ErrNoContext     = errors.New("window has no rendering context")
	ErrMapTimeout    = errors.New("timed out waiting for window to map")
	ErrFactoryClosed = errors.New("display connection is closed")
)

// UndefinedPropertyError reports an atom the server does not know.
type UndefinedPropertyError struct {
	Name string
}

func (e *UndefinedPropertyError) Error() string {
	return fmt.Sprintf("undefined property %s", e.Name)
}

func (e *UndefinedPropertyError) Unwrap() error { return ErrProperty }

// ProtocolViolationError reports a sub-message the translator for a
// handled event type does not understand.
type ProtocolViolationError struct {
	Event  string
	Detail string
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("unhandled %s: %s", e.Event, e.Detail)
}

func (e *ProtocolViolationError) Unwrap() error { return ErrProtocolViolation }
