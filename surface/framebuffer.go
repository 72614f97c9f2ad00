// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

// ScreenInfo describes a display framebuffer.
type ScreenInfo struct {
	// Visible resolution in pixels.
	XRes, YRes int

	// Physical is the bus address of the first page.
	Physical uint64

	// BufferLength is the size of all pages in bytes.
	BufferLength int

	// Stride is the row pitch in pixels; StrideBytes in bytes.
	Stride      int
	StrideBytes int

	Format Format
}

// PageSize returns the size of one visible page in bytes.
func (i ScreenInfo) PageSize() uint64 {
	return uint64(i.StrideBytes) * uint64(i.YRes)
}

// Framebuffer is an open display device.
type Framebuffer interface {
	// Info returns the geometry reported when the device was opened.
	Info() ScreenInfo

	// Pan scans out starting at the given row of the virtual framebuffer.
	Pan(yoffset int) error

	// Close releases the device.
	Close() error
}

// FramebufferOpener opens display devices by path.
type FramebufferOpener interface {
	// OpenFramebuffer opens device and sizes its virtual framebuffer to
	// hold the given number of pages.
	OpenFramebuffer(device string, pages int) (Framebuffer, error)
}

// FramebufferOpenerFunc adapts a function to FramebufferOpener.
type FramebufferOpenerFunc func(device string, pages int) (Framebuffer, error)

// OpenFramebuffer calls f.
func (f FramebufferOpenerFunc) OpenFramebuffer(device string, pages int) (Framebuffer, error) {
	return f(device, pages)
}
