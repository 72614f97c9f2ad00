// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import "errors"

// Errors.
var (
	// ErrUnsupportedFormat is returned when a pixel format has no blitter
	// equivalent.
	ErrUnsupportedFormat = errors.New("surface: unsupported format")

	// ErrUnsupportedTiling is returned for unknown tiling codes.
	ErrUnsupportedTiling = errors.New("surface: unsupported tiling")

	// ErrInvalidBuffer is returned for buffers with invalid geometry.
	ErrInvalidBuffer = errors.New("surface: invalid buffer")

	// ErrNoDriverAvailable is returned when no blit driver is registered
	// or available on the current system.
	ErrNoDriverAvailable = errors.New("surface: no driver available")
)

// DriverNotFoundError indicates a named driver is not registered.
type DriverNotFoundError struct {
	Name string
}

func (e *DriverNotFoundError) Error() string {
	return "surface: driver not found: " + e.Name
}

// DriverUnavailableError indicates a driver exists but is not available.
type DriverUnavailableError struct {
	Name string
}

func (e *DriverUnavailableError) Error() string {
	return "surface: driver unavailable: " + e.Name
}
