package dispatch

import "errors"

// Sentinel errors for the dispatch package.
var (
	// ErrUnbalancedFrame is returned when a frame is left that was never
	// entered, or when frames remain open at the end of a walk.
	ErrUnbalancedFrame = errors.New("dispatch: unbalanced frame")

	// ErrNoGeometryOptions is returned when a drawable is drawn through a
	// nil dispatcher.
	ErrNoGeometryOptions = errors.New("dispatch: no geometry options")

	// ErrDrawPanic is wrapped by the error Draw returns when a drawable
	// panics.
	ErrDrawPanic = errors.New("dispatch: drawable panicked")
)
