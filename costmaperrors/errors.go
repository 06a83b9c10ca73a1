// Package costmaperrors defines the error kinds the costmap subsystem can
// raise: config errors are fatal at startup, everything else is recoverable
// and meant to be logged by the caller rather than propagated out of the
// update loop.
package costmaperrors

import (
	"github.com/pkg/errors"
)

// ConfigError wraps a malformed footprint string, a non-finite parameter, or
// an out-of-range resolution discovered while loading configuration. It is
// fatal at initialization.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return "config error for " + e.Key + ": " + e.Reason
}

// NewConfigError builds a ConfigError for the named parameter.
func NewConfigError(key, reason string) error {
	return &ConfigError{Key: key, Reason: reason}
}

// TransformUnavailable is returned when a pose RPC fails or reports a
// negative result. Callers are expected to skip the current tick and
// continue; it is never fatal.
type TransformUnavailable struct {
	RPC string
	Err error
}

func (e *TransformUnavailable) Error() string {
	if e.Err != nil {
		return "transform unavailable from " + e.RPC + ": " + e.Err.Error()
	}
	return "transform unavailable from " + e.RPC
}

func (e *TransformUnavailable) Unwrap() error { return e.Err }

// NewTransformUnavailable reports that the named RPC could not supply a pose.
func NewTransformUnavailable(rpc string, cause error) error {
	return &TransformUnavailable{RPC: rpc, Err: cause}
}

// SizeMismatch is returned to the caller when an external static map is
// internally inconsistent (non-positive dimensions, or a data length that
// is not width*height); such a map is rejected. A map whose dimensions
// merely differ from the master grid's is not an error: the static layer
// adopts the incoming map's dimensions.
type SizeMismatch struct {
	Reason string
}

func (e *SizeMismatch) Error() string { return "size mismatch: " + e.Reason }

// NewSizeMismatch reports an internally inconsistent static map.
func NewSizeMismatch(reason string) error {
	return &SizeMismatch{Reason: reason}
}

// AllocationFailure indicates a kernel or grid (re)allocation could not be
// sized-checked successfully. The layer that raises it writes nothing until
// a later rebuild succeeds, rather than writing with a half-built buffer.
type AllocationFailure struct {
	What string
	Err  error
}

func (e *AllocationFailure) Error() string {
	if e.Err != nil {
		return "allocation failure for " + e.What + ": " + e.Err.Error()
	}
	return "allocation failure for " + e.What
}

func (e *AllocationFailure) Unwrap() error { return e.Err }

// NewAllocationFailure wraps the underlying allocation error with the name
// of the buffer that failed to size.
func NewAllocationFailure(what string, cause error) error {
	return &AllocationFailure{What: what, Err: cause}
}

// InvariantViolation marks an internal assertion failure, e.g. a nonempty
// inflation queue observed at the start of a tick. Callers in release builds
// log and reset rather than panicking.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string { return "invariant violation: " + e.Reason }

// NewInvariantViolation reports that an internal invariant did not hold.
func NewInvariantViolation(reason string) error {
	return &InvariantViolation{Reason: reason}
}

// Wrap attaches additional context to an error without losing its type for
// errors.As/errors.Is callers, matching utils/errors.go's style of
// constructing errors through github.com/pkg/errors.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}
