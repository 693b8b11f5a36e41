package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates a configuration that cannot start a simulation.
	ErrInvalidConfig = errors.New("dynamo: invalid simulation configuration")

	// ErrDisposed indicates an operation on a simulation that has been disposed.
	ErrDisposed = errors.New("dynamo: simulation disposed")

	// ErrNotStarted indicates the simulation has not been mounted yet.
	ErrNotStarted = errors.New("dynamo: simulation not started")

	// ErrAlreadyStarted indicates Start was called twice on one instance.
	ErrAlreadyStarted = errors.New("dynamo: simulation already started")

	// ErrInvalidViewport indicates a surface with non-positive dimensions.
	ErrInvalidViewport = errors.New("dynamo: viewport dimensions must be positive")
)

// ConfigurationError names the configuration field that failed validation.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("dynamo: invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewConfigurationError is a shorthand used by validators.
func NewConfigurationError(field string, value any, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}
