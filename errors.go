package npr

import (
	"errors"
	"fmt"
)

// Common errors for filter operations.
var (
	// ErrInvalidDimensions is returned when rows or cols is non-positive.
	ErrInvalidDimensions = errors.New("npr: invalid dimensions")

	// ErrInvalidChannels is returned for channel counts other than 1 or 3.
	ErrInvalidChannels = errors.New("npr: channel count must be 1 or 3")

	// ErrChannelMismatch is returned when an input cannot be converted to the
	// channel count a filter requires (only 3 -> 1 is automatic).
	ErrChannelMismatch = errors.New("npr: unsupported channel conversion")

	// ErrMissingInput is returned when a required input slot is nil.
	ErrMissingInput = errors.New("npr: missing input")

	// ErrPrecondition marks recoverable precondition violations. The filter
	// has already applied its fallback (pass-through or skipped output) and
	// the caller may continue the pipeline.
	ErrPrecondition = errors.New("npr: precondition not met")

	// ErrMalformedParameter is returned when a parameter value cannot be parsed.
	ErrMalformedParameter = errors.New("npr: malformed parameter")

	// ErrOutOfRange is returned when a parameter value is outside its bounds.
	ErrOutOfRange = errors.New("npr: parameter out of range")

	// ErrUnknownType is returned by New for unregistered filter types.
	ErrUnknownType = errors.New("npr: unknown filter type")

	// ErrAsset is returned when a Stipple-by-Example asset is missing or invalid.
	ErrAsset = errors.New("npr: asset")
)

// ParamError describes a failure to read or validate one parameter.
type ParamError struct {
	Filter Type
	Key    string
	Value  string
	Err    error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("npr: %s parameter %s=%q: %v", e.Filter, e.Key, e.Value, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }

// preconditionf wraps ErrPrecondition with a formatted reason.
func preconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}
