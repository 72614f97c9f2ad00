// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

// Capability is a blitter state toggled with Enable and Disable.
type Capability int

// Capabilities.
const (
	CapBlend Capability = iota
	CapGlobalAlpha
	CapDither
)

func (c Capability) String() string {
	switch c {
	case CapBlend:
		return "blend"
	case CapGlobalAlpha:
		return "global-alpha"
	case CapDither:
		return "dither"
	}
	return "unknown"
}

// Buffer is a block of blitter-addressable memory.
type Buffer struct {
	// PAddr is the bus address of the first byte.
	PAddr uint64

	// Size is the length in bytes.
	Size int

	// Mem maps the buffer into the process, when the driver allows it.
	Mem []byte
}

// Blitter is an open context on a 2D blit engine.
//
// Operations are queued; Finish blocks until every queued operation has
// completed. A Blitter is not safe for concurrent use.
type Blitter interface {
	// Alloc allocates size bytes of blitter-addressable memory.
	Alloc(size int, cacheable bool) (*Buffer, error)

	// Import makes host memory addressable by the blitter.
	Import(mem []byte) (*Buffer, error)

	// Free releases memory obtained from Alloc or Import.
	Free(buf *Buffer) error

	// Clear fills the active rectangle of dst with dst.ClearColor.
	Clear(dst Drawable) error

	// Blit copies the active rectangle of src onto the active rectangle of
	// dst, scaling as needed, limited by the clipping rectangle.
	Blit(src, dst Drawable) error

	// SetClipping limits subsequent blits to the given destination area.
	SetClipping(left, top, right, bottom int) error

	Enable(c Capability) error
	Disable(c Capability) error

	// Finish waits for all queued operations.
	Finish() error

	// Close releases the context.
	Close() error
}
