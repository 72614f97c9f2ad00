package g2d

import "errors"

// Errors returned by renderer and output setup. Per-frame failures are
// logged and never returned.
var (
	// ErrInvalidDevice is returned for an empty device list or an empty
	// entry inside it.
	ErrInvalidDevice = errors.New("g2d: invalid device name")

	// ErrNoFramebuffer is returned by CreateOutput when the renderer has no
	// framebuffer opener.
	ErrNoFramebuffer = errors.New("g2d: no framebuffer opener")

	// ErrRendererDestroyed is returned when a destroyed renderer is used.
	ErrRendererDestroyed = errors.New("g2d: renderer destroyed")

	// ErrOutputDestroyed is returned when a destroyed output is repainted.
	ErrOutputDestroyed = errors.New("g2d: output destroyed")
)
