package scope

import (
	"errors"
	"fmt"
)

// Sentinel errors for the scope package.
// Returned errors wrap one of these; test with errors.Is.
var (
	// ErrInvalidConfig is returned when a Config or LayoutConfig cannot be
	// used: both or neither grid axes resolvable, unknown orientation,
	// unknown color name, non-positive surface size.
	ErrInvalidConfig = errors.New("scope: invalid config")

	// ErrArityMismatch is returned when a per-channel list (colors, labels,
	// frame data) does not have one entry per channel.
	ErrArityMismatch = errors.New("scope: arity mismatch")

	// ErrLifecycleViolation is returned when an operation that is only valid
	// before the first frame is called after it.
	ErrLifecycleViolation = errors.New("scope: lifecycle violation")

	// ErrBackendContract is returned when a backend breaks its documented
	// contract, e.g. a frame buffer of the wrong size.
	ErrBackendContract = errors.New("scope: backend contract violation")

	// ErrNotRendered is returned by Frame before any RenderFrame call.
	ErrNotRendered = errors.New("scope: no frame rendered yet")

	// ErrClosed is returned by any Renderer method called after Close.
	ErrClosed = errors.New("scope: renderer is closed")
)

// ArityError reports a per-channel list of the wrong length.
// It unwraps to ErrArityMismatch.
type ArityError struct {
	What string // "colors", "labels", "data", ...
	Got  int
	Want int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("scope: cannot assign %d %s to %d channels", e.Got, e.What, e.Want)
}

// Unwrap returns ErrArityMismatch.
func (e *ArityError) Unwrap() error {
	return ErrArityMismatch
}
